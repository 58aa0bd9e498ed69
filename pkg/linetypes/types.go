// Package linetypes defines the shared vocabulary for the lineshell
// dispatch system: the handler contract, match data, dispatch outcomes,
// and the line I/O abstractions the core needs from its embedder.
package linetypes

// Outcome reports whether a dispatch attempt found a handler for a line.
type Outcome int

const (
	// NotHandled means no handler's pattern matched the line.
	NotHandled Outcome = iota
	// Handled means exactly one handler acted on the line.
	Handled
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "not handled"
}

// MatchResult carries the capture data produced by one pattern
// evaluation. It is ephemeral: valid for the duration of a single
// dispatch attempt, and never retained by the framework.
type MatchResult struct {
	// Matched reports whether the pattern matched the line at all.
	Matched bool
	// Positional holds every capture group in pattern order, named
	// groups included.
	Positional []string
	// Named maps named capture groups to their captured text. Nil when
	// the pattern declares no named groups.
	Named map[string]string
}

// Group returns the i-th positional capture (zero-based), or the empty
// string when the index is out of range.
func (m MatchResult) Group(i int) string {
	if i < 0 || i >= len(m.Positional) {
		return ""
	}
	return m.Positional[i]
}

// Get returns the named capture for key, or the empty string when the
// pattern has no such group or it did not participate in the match.
func (m MatchResult) Get(key string) string {
	return m.Named[key]
}

// Action is the user-supplied behavior bound to a function-backed
// handler. It receives the handler it is bound to, the capture data for
// the current line, and the raw line itself. An error returned here
// propagates out of dispatch uncaught.
type Action func(h Handler, m MatchResult, line string) error

// Handler is the unit of dispatch: a pattern-bound behavior that can
// test whether it applies to a line and act on a matching one.
//
// command.Command provides default implementations of everything except
// the pattern itself; custom handler types embed it and override Act
// (and optionally CanHandle or Handle).
type Handler interface {
	// Match evaluates the handler's pattern against the line.
	Match(line string) MatchResult

	// CanHandle reports whether this handler applies to the line. The
	// default delegates to Match; overrides may add further gating.
	CanHandle(line string) bool

	// Handle dispatches the line to this handler and, when it does not
	// apply, to the handlers reachable through Next. At most one Act is
	// invoked per call.
	Handle(line string) (Outcome, error)

	// Act performs the handler's behavior on a matched line.
	Act(m MatchResult, line string) error

	// HelpText returns handler-specific help, or "" when none is set.
	HelpText() string

	// Next returns the successor handler in a chain, or nil.
	Next() Handler

	// SetNext links a successor handler. Linking must not introduce a
	// cycle; the traversal depth guard is the only defense.
	SetNext(Handler)
}

// LineReader is the abstract read capability the dispatch loop blocks
// on. ReadLine returns io.EOF when the source is exhausted, which the
// loop treats as clean termination.
type LineReader interface {
	ReadLine() (string, error)
}

// LineWriter is the abstract write capability used by builtin help
// output and, commonly, by user actions.
type LineWriter interface {
	WriteLine(s string) error
}

// PromptFunc produces the prompt for one loop iteration. It is
// re-evaluated before every read so prompts can reflect mutable state.
type PromptFunc func() string
