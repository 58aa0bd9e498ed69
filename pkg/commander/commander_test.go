package commander

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineshell/pkg/linetypes"
	"lineshell/pkg/pattern"
)

// recordWriter collects written lines for assertions.
type recordWriter struct {
	lines []string
}

func (w *recordWriter) WriteLine(s string) error {
	w.lines = append(w.lines, s)
	return nil
}

// scriptedReader serves a fixed sequence of lines and counts reads, so
// tests can assert the loop stopped reading.
type scriptedReader struct {
	lines []string
	reads int
}

func (r *scriptedReader) ReadLine() (string, error) {
	r.reads++
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

// promptReader is a scriptedReader that renders its own prompt, like
// the interactive readline source.
type promptReader struct {
	scriptedReader
	prompts []string
}

func (r *promptReader) SetPrompt(p string) {
	r.prompts = append(r.prompts, p)
}

func newTestCommander(t *testing.T, opts ...Option) (*Commander, *recordWriter) {
	t.Helper()
	out := &recordWriter{}
	c, err := New(append([]Option{WithWriter(out)}, opts...)...)
	require.NoError(t, err)
	return c, out
}

func TestNew_RegistersBuiltins(t *testing.T) {
	c, _ := newTestCommander(t)

	require.Equal(t, 2, c.Len())
	handlers := c.Handlers()
	assert.True(t, handlers[0].CanHandle("help"))
	assert.True(t, handlers[1].CanHandle("exit"))
	assert.True(t, handlers[1].CanHandle("quit"))
}

func TestNew_WithoutBuiltins(t *testing.T) {
	c, _ := newTestCommander(t, WithoutBuiltins())
	assert.Zero(t, c.Len())
}

func TestCommander_AddFunc_InvalidPattern(t *testing.T) {
	c, _ := newTestCommander(t)

	err := c.AddFunc(`(`, func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
		return nil
	}, "")

	var compileErr *pattern.CompileError
	require.ErrorAs(t, err, &compileErr)
	// The failed registration must not grow the handler list.
	assert.Equal(t, 2, c.Len())
}

func TestCommander_Add_Nil(t *testing.T) {
	c, _ := newTestCommander(t)
	assert.ErrorIs(t, c.Add(nil), ErrNilHandler)
}

func TestCommander_Dispatch_FirstMatchOnly(t *testing.T) {
	c, _ := newTestCommander(t, WithoutBuiltins(), WithoutNotice())

	var acted []string
	record := func(name string) linetypes.Action {
		return func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
			acted = append(acted, name)
			return nil
		}
	}
	require.NoError(t, c.AddFunc(`pop`, record("first"), ""))
	require.NoError(t, c.AddFunc(`pop`, record("second"), ""))

	outcome, err := c.Dispatch("pop")
	require.NoError(t, err)
	assert.Equal(t, linetypes.Handled, outcome)
	assert.Equal(t, []string{"first"}, acted)
}

func TestCommander_Dispatch_BuiltinsEvaluatedFirst(t *testing.T) {
	c, out := newTestCommander(t)

	shadowed := false
	require.NoError(t, c.AddFunc(`help`, func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
		shadowed = true
		return nil
	}, ""))

	outcome, err := c.Dispatch("help")
	require.NoError(t, err)
	assert.Equal(t, linetypes.Handled, outcome)
	// The builtin registered at construction wins by position.
	assert.False(t, shadowed)
	assert.NotEmpty(t, out.lines)
}

func TestCommander_Dispatch_NoMatchWritesNotice(t *testing.T) {
	c, out := newTestCommander(t)

	outcome, err := c.Dispatch("gibberish")
	require.NoError(t, err)
	assert.Equal(t, linetypes.NotHandled, outcome)
	require.Len(t, out.lines, 1)
	assert.Equal(t, `no matching command: "gibberish"`, out.lines[0])
}

func TestCommander_Dispatch_CustomNotice(t *testing.T) {
	c, out := newTestCommander(t, WithNotice("eh? %q"))

	_, err := c.Dispatch("gibberish")
	require.NoError(t, err)
	require.Len(t, out.lines, 1)
	assert.Equal(t, `eh? "gibberish"`, out.lines[0])
}

func TestCommander_Dispatch_WithoutNotice(t *testing.T) {
	c, out := newTestCommander(t, WithoutNotice())

	outcome, err := c.Dispatch("gibberish")
	require.NoError(t, err)
	assert.Equal(t, linetypes.NotHandled, outcome)
	assert.Empty(t, out.lines)
}

func TestCommander_Dispatch_ActionErrorPropagates(t *testing.T) {
	c, _ := newTestCommander(t)

	boom := errors.New("boom")
	require.NoError(t, c.AddFunc(`boom`, func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
		return boom
	}, ""))

	_, err := c.Dispatch("boom")
	assert.ErrorIs(t, err, boom)
}

func TestCommander_Dispatch_ContinueOnError(t *testing.T) {
	c, _ := newTestCommander(t, WithContinueOnError())

	require.NoError(t, c.AddFunc(`boom`, func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
		return errors.New("boom")
	}, ""))

	_, err := c.Dispatch("boom")
	assert.NoError(t, err)
}

func TestCommander_ExitStopsSession(t *testing.T) {
	c, _ := newTestCommander(t)
	require.True(t, c.Session().Running())

	_, err := c.Dispatch("exit")
	require.NoError(t, err)
	assert.False(t, c.Session().Running())

	c.Session().Reset()
	_, err = c.Dispatch("quit")
	require.NoError(t, err)
	assert.False(t, c.Session().Running())
}

func TestCommander_Run_EndToEnd(t *testing.T) {
	reader := &scriptedReader{lines: []string{"echo hi", "foo", "exit", "never read"}}
	out := &recordWriter{}
	c, err := New(WithReader(reader), WithWriter(out))
	require.NoError(t, err)

	require.NoError(t, c.AddFunc(`echo (.+)`, func(_ linetypes.Handler, m linetypes.MatchResult, _ string) error {
		return c.Writer().WriteLine(m.Group(0))
	}, ""))

	require.NoError(t, c.Run(nil))

	assert.Equal(t, []string{"hi", `no matching command: "foo"`}, out.lines)
	// The loop observed the cleared running flag before reading again.
	assert.Equal(t, 3, reader.reads)
	assert.False(t, c.Session().Running())
}

func TestCommander_Run_EndOfInputTerminatesCleanly(t *testing.T) {
	reader := &scriptedReader{lines: []string{"exit maybe later"}}
	c, _ := newTestCommander(t, WithReader(reader), WithoutNotice())

	require.NoError(t, c.Run(nil))
	assert.Equal(t, 2, reader.reads)
	// EOF is termination, not an error, and the session stays armed.
	assert.True(t, c.Session().Running())
}

func TestCommander_Run_HandlerErrorStopsLoop(t *testing.T) {
	reader := &scriptedReader{lines: []string{"boom", "after"}}
	c, _ := newTestCommander(t, WithReader(reader))

	boom := errors.New("boom")
	require.NoError(t, c.AddFunc(`boom`, func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
		return boom
	}, ""))

	err := c.Run(nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, reader.reads)
}

func TestCommander_Run_DynamicPromptReflectsState(t *testing.T) {
	reader := &scriptedReader{lines: []string{"tick"}}
	out := &recordWriter{}
	c, err := New(WithReader(reader), WithWriter(out), WithoutNotice())
	require.NoError(t, err)

	count := 0
	require.NoError(t, c.AddFunc(`tick`, func(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
		count++
		return nil
	}, ""))

	prompt := func() string { return fmt.Sprintf("[%d]> ", count) }
	require.NoError(t, c.Run(prompt))

	// One prompt per iteration, re-evaluated after the state changed.
	require.Len(t, out.lines, 2)
	assert.Equal(t, "[0]> ", out.lines[0])
	assert.Equal(t, "[1]> ", out.lines[1])
}

func TestCommander_Run_PrompterReaderRendersPrompt(t *testing.T) {
	reader := &promptReader{scriptedReader: scriptedReader{lines: []string{"exit"}}}
	c, out := newTestCommander(t, WithReader(reader))

	require.NoError(t, c.Run(StaticPrompt("> ")))

	assert.Equal(t, []string{"> "}, reader.prompts)
	// Prompt-capable readers render the prompt; it never hits the sink.
	assert.Empty(t, out.lines)
}

func TestStaticPrompt(t *testing.T) {
	p := StaticPrompt("go> ")
	assert.Equal(t, "go> ", p())
	assert.Equal(t, "go> ", p())
}
