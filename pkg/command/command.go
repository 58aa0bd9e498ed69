// Package command implements the handler abstraction: a pattern-bound
// unit of behavior with an optional forward link to a successor,
// dispatchable alone, as part of a chain, or through a commander
// registry.
package command

import (
	"errors"

	"lineshell/pkg/linetypes"
	"lineshell/pkg/pattern"
)

// ErrNoAction is returned by the default Act when a command was built
// without a callback and the embedding type did not override Act.
var ErrNoAction = errors.New("command has no action bound")

// ErrChainTooDeep is returned when chain traversal exceeds the depth
// guard. Linking a cycle is a caller error; the guard turns it into an
// error instead of an infinite loop.
var ErrChainTooDeep = errors.New("chain traversal exceeded depth limit")

// maxChainDepth bounds a single traversal. Legitimate chains are
// expected to be far shorter.
const maxChainDepth = 10000

// Command is the default handler implementation: a compiled pattern,
// an optional action callback, optional help text, and an optional
// forward link. It satisfies linetypes.Handler on its own and serves as
// the embeddable base for custom handler types that override Act.
type Command struct {
	pattern *pattern.Pattern
	help    string
	action  linetypes.Action
	next    linetypes.Handler
	outer   linetypes.Handler
}

// Option configures command construction.
type Option func(*options)

type options struct {
	help        string
	patternOpts []pattern.Option
}

// Help attaches help text, surfaced through HelpText and the builtin
// help command.
func Help(text string) Option {
	return func(o *options) { o.help = text }
}

// Anchored forwards the anchoring choice to pattern compilation.
// Commands anchor to the whole line by default.
func Anchored(on bool) Option {
	return func(o *options) {
		o.patternOpts = append(o.patternOpts, pattern.Anchored(on))
	}
}

// New compiles expr and returns a command with no action bound. It is
// the construction path for custom types that embed Command and
// override Act. An invalid expression returns a *pattern.CompileError.
func New(expr string, opts ...Option) (*Command, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p, err := pattern.Compile(expr, o.patternOpts...)
	if err != nil {
		return nil, err
	}

	return &Command{pattern: p, help: o.help}, nil
}

// NewFunc compiles expr and binds action as the command's behavior, the
// function-registration style. An invalid expression returns a
// *pattern.CompileError.
func NewFunc(expr string, action linetypes.Action, opts ...Option) (*Command, error) {
	c, err := New(expr, opts...)
	if err != nil {
		return nil, err
	}
	c.action = action
	return c, nil
}

// Bind points the command at the value embedding it, so that Handle and
// action callbacks dispatch to the outer type's overrides. Types that
// embed Command call Bind(self) in their constructor. Dispatch through
// a registry or chain goes through interface values and does not need
// it.
func (c *Command) Bind(outer linetypes.Handler) {
	c.outer = outer
}

// self returns the outermost handler identity for dynamic dispatch.
func (c *Command) self() linetypes.Handler {
	if c.outer != nil {
		return c.outer
	}
	return c
}

// Pattern returns the command's compiled pattern.
func (c *Command) Pattern() *pattern.Pattern {
	return c.pattern
}

// Match evaluates the command's pattern against line.
func (c *Command) Match(line string) linetypes.MatchResult {
	return c.pattern.Match(line)
}

// CanHandle reports whether the pattern matches the line. Embedding
// types override this to add gating beyond pure pattern matching.
func (c *Command) CanHandle(line string) bool {
	return c.pattern.Match(line).Matched
}

// Act invokes the bound action callback, or returns ErrNoAction when
// the command has none. Embedding types override this to supply their
// behavior directly.
func (c *Command) Act(m linetypes.MatchResult, line string) error {
	if c.action == nil {
		return ErrNoAction
	}
	return c.action(c.self(), m, line)
}

// Handle dispatches line starting at this command and continuing down
// the chain of Next links: the first handler that can handle the line
// acts and the walk stops. With no successor linked this is single-shot
// dispatch.
func (c *Command) Handle(line string) (linetypes.Outcome, error) {
	return Dispatch(c.self(), line)
}

// HelpText returns the configured help text, "" when none was set.
func (c *Command) HelpText() string {
	return c.help
}

// Next returns the linked successor, or nil.
func (c *Command) Next() linetypes.Handler {
	return c.next
}

// SetNext links a successor handler. The link is a single forward
// reference owned by this command; correct usage never forms a cycle.
func (c *Command) SetNext(h linetypes.Handler) {
	c.next = h
}

// Dispatch walks the chain reachable from entry via Next links and
// gives the line to the first handler whose CanHandle reports true.
// Exactly one Act runs per call; handlers not reachable from entry are
// never consulted. The walk is an explicit loop, so chain length is not
// bounded by stack depth, only by the cycle guard.
func Dispatch(entry linetypes.Handler, line string) (linetypes.Outcome, error) {
	depth := 0
	for node := entry; node != nil; node = node.Next() {
		depth++
		if depth > maxChainDepth {
			return linetypes.NotHandled, ErrChainTooDeep
		}
		if !node.CanHandle(line) {
			continue
		}
		if err := node.Act(node.Match(line), line); err != nil {
			return linetypes.Handled, err
		}
		return linetypes.Handled, nil
	}
	return linetypes.NotHandled, nil
}
