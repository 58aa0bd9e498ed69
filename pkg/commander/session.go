package commander

import "github.com/google/uuid"

// Session is the explicit shared state a dispatch loop and its handlers
// operate on: the cooperative running flag plus a small string variable
// store. It replaces implicit process-wide globals; actions reach it by
// reference through the commander or their own closures.
//
// The framework is single-threaded: one logical thread of control owns
// a session. Embedders that dispatch concurrently must serialize access
// themselves.
type Session struct {
	id      string
	running bool
	vars    map[string]string
}

// NewSession returns a running session with a fresh id.
func NewSession() *Session {
	return &Session{
		id:      uuid.NewString(),
		running: true,
		vars:    make(map[string]string),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Running reports whether the dispatch loop should continue. The loop
// checks it before every read.
func (s *Session) Running() bool {
	return s.running
}

// Stop clears the running flag, signalling cooperative termination.
// The builtin exit handler calls this; any handler may.
func (s *Session) Stop() {
	s.running = false
}

// Reset re-arms a stopped session so it can drive another loop.
func (s *Session) Reset() {
	s.running = true
}

// Get returns the session variable named key, "" when unset.
func (s *Session) Get(key string) string {
	return s.vars[key]
}

// Set stores a session variable.
func (s *Session) Set(key, value string) {
	s.vars[key] = value
}
