package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_InvalidExpression(t *testing.T) {
	p, err := Compile(`set (?P<msg`)
	assert.Nil(t, p)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, `set (?P<msg`, compileErr.Expr)
	assert.Contains(t, compileErr.Error(), "invalid pattern")
	assert.Error(t, compileErr.Unwrap())
}

func TestCompile_AnchoredByDefault(t *testing.T) {
	p, err := Compile(`pop`)
	require.NoError(t, err)

	assert.True(t, p.Anchored())
	assert.True(t, p.Match("pop").Matched)
	assert.False(t, p.Match("pop it").Matched)
	assert.False(t, p.Match("do pop").Matched)
}

func TestCompile_Unanchored(t *testing.T) {
	p, err := Compile(`pop`, Anchored(false))
	require.NoError(t, err)

	assert.False(t, p.Anchored())
	assert.True(t, p.Match("pop").Matched)
	assert.True(t, p.Match("do pop it").Matched)
}

func TestPattern_Match_NamedAndPositionalCaptures(t *testing.T) {
	p, err := Compile(`set (?P<msg>.+)`)
	require.NoError(t, err)

	m := p.Match("set hello world")
	require.True(t, m.Matched)
	assert.Equal(t, []string{"hello world"}, m.Positional)
	assert.Equal(t, map[string]string{"msg": "hello world"}, m.Named)
}

func TestPattern_Match_MixedGroups(t *testing.T) {
	p, err := Compile(`(\w+) (?P<rest>.+)`)
	require.NoError(t, err)

	m := p.Match("add 42")
	require.True(t, m.Matched)
	// Named groups appear in the positional sequence too, in pattern
	// order.
	assert.Equal(t, []string{"add", "42"}, m.Positional)
	assert.Equal(t, map[string]string{"rest": "42"}, m.Named)
}

func TestPattern_Match_NoCaptureGroups(t *testing.T) {
	p, err := Compile(`exit`)
	require.NoError(t, err)

	m := p.Match("exit")
	assert.True(t, m.Matched)
	assert.Empty(t, m.Positional)
	assert.Nil(t, m.Named)
}

func TestPattern_Match_NoMatch(t *testing.T) {
	p, err := Compile(`add (.+)`)
	require.NoError(t, err)

	m := p.Match("subtract 1")
	assert.False(t, m.Matched)
	assert.Empty(t, m.Positional)
	assert.Nil(t, m.Named)
}

func TestPattern_Match_EmptyLine(t *testing.T) {
	p, err := Compile(`add (.+)`)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m := p.Match("")
		assert.False(t, m.Matched)
	})
}

func TestPattern_String(t *testing.T) {
	p, err := Compile(`add (.+)`)
	require.NoError(t, err)
	assert.Equal(t, `add (.+)`, p.String())
}

func TestMustCompile_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(`(`)
	})
	assert.NotPanics(t, func() {
		MustCompile(`ok`)
	})
}
