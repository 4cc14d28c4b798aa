package service

import (
	"errors"
	"sync"
)

// ErrStaleResult is returned when a generation resolves after a newer
// operation has already touched the same entity. The late result is dropped
// rather than clobbering the current state.
var ErrStaleResult = errors.New("result is stale, a newer operation superseded it")

// Guard hands out per-key tokens so slow generation calls cannot commit
// over each other. Begin invalidates every earlier token for the key;
// Commit reports whether the token is still the current one.
type Guard struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

func NewGuard() *Guard {
	return &Guard{seqs: make(map[string]uint64)}
}

func (g *Guard) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seqs[key]++
	return g.seqs[key]
}

func (g *Guard) Commit(key string, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seqs[key] == token
}
