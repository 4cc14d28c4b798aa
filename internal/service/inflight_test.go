package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_CommitCurrentToken(t *testing.T) {
	g := NewGuard()
	token := g.Begin("session-1")
	assert.True(t, g.Commit("session-1", token))
}

func TestGuard_NewerBeginInvalidatesOlderToken(t *testing.T) {
	g := NewGuard()
	older := g.Begin("session-1")
	newer := g.Begin("session-1")

	assert.False(t, g.Commit("session-1", older), "superseded tokens cannot commit")
	assert.True(t, g.Commit("session-1", newer))
}

func TestGuard_KeysAreIndependent(t *testing.T) {
	g := NewGuard()
	a := g.Begin("a")
	g.Begin("b")
	assert.True(t, g.Commit("a", a))
}
