// Package commander provides the coordinating registry for line
// dispatch: an ordered collection of pattern-bound handlers, builtin
// help and exit commands, first-match dispatch, and the blocking
// prompt-read-dispatch loop.
package commander

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"lineshell/internal/logger"
	"lineshell/pkg/command"
	"lineshell/pkg/linetypes"
)

// ErrNilHandler is returned when a nil handler is registered.
var ErrNilHandler = errors.New("cannot register nil handler")

// defaultNotice is the format of the unknown-command notice. It must
// contain exactly one string verb for the offending line.
const defaultNotice = "no matching command: %q"

// Commander owns an ordered sequence of handlers and dispatches lines
// to the first one that matches. Registration order is evaluation
// order; the builtin help and exit handlers are registered first unless
// suppressed. Registration is safe for concurrent reads; dispatch
// itself assumes a single logical thread of control.
type Commander struct {
	mu       sync.RWMutex
	handlers []linetypes.Handler

	session *Session
	in      linetypes.LineReader
	out     linetypes.LineWriter

	notice          string
	showNotice      bool
	continueOnError bool
	builtinsOff     bool
}

// Option configures a Commander at construction.
type Option func(*Commander)

// WithReader sets the line source the dispatch loop blocks on.
// Defaults to standard input.
func WithReader(r linetypes.LineReader) Option {
	return func(c *Commander) { c.in = r }
}

// WithWriter sets the line sink used by builtin output and the
// unknown-command notice. Defaults to standard output.
func WithWriter(w linetypes.LineWriter) Option {
	return func(c *Commander) { c.out = w }
}

// WithSession injects shared session state, letting several components
// observe the same running flag and variables.
func WithSession(s *Session) Option {
	return func(c *Commander) { c.session = s }
}

// WithNotice replaces the unknown-command notice format. The format
// must contain one string verb for the input line.
func WithNotice(format string) Option {
	return func(c *Commander) { c.notice = format }
}

// WithoutNotice silently ignores lines no handler matches.
func WithoutNotice() Option {
	return func(c *Commander) { c.showNotice = false }
}

// WithContinueOnError logs handler errors and keeps the loop running
// instead of the default fail-loud propagation.
func WithContinueOnError() Option {
	return func(c *Commander) { c.continueOnError = true }
}

// WithoutBuiltins suppresses registration of the builtin help and exit
// handlers.
func WithoutBuiltins() Option {
	return func(c *Commander) { c.builtinsOff = true }
}

// New constructs a Commander and, unless suppressed, registers the
// builtin help and exit handlers ahead of any user handlers.
func New(opts ...Option) (*Commander, error) {
	c := &Commander{
		notice:     defaultNotice,
		showNotice: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession()
	}
	if c.in == nil {
		c.in = NewReader(os.Stdin)
	}
	if c.out == nil {
		c.out = NewWriter(os.Stdout)
	}

	if !c.builtinsOff {
		if err := c.registerBuiltins(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Session returns the shared session state.
func (c *Commander) Session() *Session {
	return c.session
}

// Writer returns the configured line sink, for actions that want to
// share the commander's output.
func (c *Commander) Writer() linetypes.LineWriter {
	return c.out
}

// AddFunc compiles expr and registers action as a function-backed
// handler with the given help text. An invalid expression returns a
// *pattern.CompileError and registers nothing.
func (c *Commander) AddFunc(expr string, action linetypes.Action, help string) error {
	cmd, err := command.NewFunc(expr, action, command.Help(help))
	if err != nil {
		return err
	}
	return c.Add(cmd)
}

// Add appends a constructed handler to the evaluation order.
func (c *Commander) Add(h linetypes.Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
	return nil
}

// Handlers returns a copy of the registered handlers in evaluation
// order.
func (c *Commander) Handlers() []linetypes.Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]linetypes.Handler, len(c.handlers))
	copy(out, c.handlers)
	return out
}

// Len returns the number of registered handlers, builtins included.
func (c *Commander) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}

// Dispatch walks the handlers in registration order and gives line to
// the first one whose Handle reports Handled; at most one action runs.
// When no handler matches, the unknown-command notice is written
// (unless suppressed) and the outcome is NotHandled.
//
// A handler error propagates to the caller by default; under
// WithContinueOnError it is logged and swallowed so the loop survives.
func (c *Commander) Dispatch(line string) (linetypes.Outcome, error) {
	for _, h := range c.Handlers() {
		outcome, err := h.Handle(line)
		if err != nil {
			logger.Error("handler failed", "session", c.session.ID(), "line", line, "error", err)
			if c.continueOnError {
				return outcome, nil
			}
			return outcome, err
		}
		if outcome == linetypes.Handled {
			logger.Debug("line handled", "session", c.session.ID(), "line", line)
			return linetypes.Handled, nil
		}
	}

	logger.Debug("no matching handler", "session", c.session.ID(), "line", line)
	if c.showNotice {
		if err := c.out.WriteLine(fmt.Sprintf(c.notice, line)); err != nil {
			return linetypes.NotHandled, fmt.Errorf("write notice: %w", err)
		}
	}
	return linetypes.NotHandled, nil
}

// prompter is implemented by line readers that render the prompt
// themselves (the interactive readline runner does).
type prompter interface {
	SetPrompt(string)
}

// StaticPrompt adapts a fixed string to a PromptFunc.
func StaticPrompt(s string) linetypes.PromptFunc {
	return func() string { return s }
}

// Run blocks in the prompt-read-dispatch loop until the session stops
// running or the reader reports end of input. The prompt function is
// re-evaluated before every read, so prompts can reflect mutable state.
//
// End of input terminates the loop cleanly with a nil error. A read
// failure or a propagated handler error terminates it with that error.
func (c *Commander) Run(prompt linetypes.PromptFunc) error {
	logger.Debug("entering dispatch loop", "session", c.session.ID())

	for c.session.Running() {
		if prompt != nil {
			p := prompt()
			if pr, ok := c.in.(prompter); ok {
				pr.SetPrompt(p)
			} else if p != "" {
				if err := c.out.WriteLine(p); err != nil {
					return fmt.Errorf("write prompt: %w", err)
				}
			}
		}

		line, err := c.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("input exhausted", "session", c.session.ID())
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}

		if _, err := c.Dispatch(line); err != nil {
			return err
		}
	}

	logger.Debug("dispatch loop stopped", "session", c.session.ID())
	return nil
}
