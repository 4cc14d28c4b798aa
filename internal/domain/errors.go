package domain

import "errors"

// ErrInvalidState indicates an operation was invoked against a session or
// roadmap node in a state that cannot accept it: answering a completed
// interview, completing a leaf twice, or completing a phase whose children
// are unfinished. Unlike generation failures, which are absorbed by
// deterministic fallbacks, this error always surfaces to the caller because
// it signals a sequencing bug.
var ErrInvalidState = errors.New("invalid state for operation")

// ErrNotFound indicates an entity or node lookup failed.
var ErrNotFound = errors.New("not found")
