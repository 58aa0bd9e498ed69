package commander

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	s := NewSession()

	assert.NotEmpty(t, s.ID())
	assert.True(t, s.Running())
}

func TestSession_UniqueIDs(t *testing.T) {
	a := NewSession()
	b := NewSession()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSession_StopAndReset(t *testing.T) {
	s := NewSession()

	s.Stop()
	assert.False(t, s.Running())

	s.Reset()
	assert.True(t, s.Running())
}

func TestSession_Variables(t *testing.T) {
	s := NewSession()

	assert.Equal(t, "", s.Get("name"))

	s.Set("name", "ada")
	assert.Equal(t, "ada", s.Get("name"))

	s.Set("name", "grace")
	assert.Equal(t, "grace", s.Get("name"))
}

func TestCommander_SharedSession(t *testing.T) {
	s := NewSession()
	a, err := New(WithSession(s), WithWriter(&recordWriter{}))
	assert.NoError(t, err)
	b, err := New(WithSession(s), WithWriter(&recordWriter{}))
	assert.NoError(t, err)

	_, err = a.Dispatch("exit")
	assert.NoError(t, err)

	// Both commanders observe the same cooperative flag.
	assert.False(t, b.Session().Running())
}
