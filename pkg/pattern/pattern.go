// Package pattern wraps compiled regular expressions behind the line
// matching contract the dispatch system consumes. Compilation failures
// surface at construction time; matching itself is total and pure.
package pattern

import (
	"fmt"
	"regexp"

	"lineshell/pkg/linetypes"
)

// CompileError reports an invalid pattern expression. It is returned
// from Compile and from every registration path that compiles a
// pattern; matching never fails.
type CompileError struct {
	Expr string
	Err  error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Expr, e.Err)
}

// Unwrap exposes the underlying regexp compile error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Pattern is an immutable compiled matcher. Matching is a pure function
// of the input line: no state is retained between calls, so a Pattern
// is safe for concurrent use.
type Pattern struct {
	expr     string
	anchored bool
	re       *regexp.Regexp
}

// Option configures pattern compilation.
type Option func(*config)

type config struct {
	anchored bool
}

// Anchored controls whole-line anchoring. The default is true: the
// expression must match the entire line, which avoids surprising
// partial matches against leading or trailing garbage. Pass false to
// allow substring matches.
func Anchored(on bool) Option {
	return func(c *config) { c.anchored = on }
}

// Compile builds a Pattern from a regular expression source. An invalid
// expression returns a *CompileError; a compiled Pattern never fails at
// match time.
func Compile(expr string, opts ...Option) (*Pattern, error) {
	cfg := config{anchored: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	src := expr
	if cfg.anchored {
		src = "^(?:" + expr + ")$"
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &CompileError{Expr: expr, Err: err}
	}

	return &Pattern{expr: expr, anchored: cfg.anchored, re: re}, nil
}

// MustCompile is Compile that panics on an invalid expression. It is
// intended for patterns declared as constants in handler constructors.
func MustCompile(expr string, opts ...Option) *Pattern {
	p, err := Compile(expr, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Match evaluates the pattern against line. Both positional and named
// captures are derived from the single evaluation: Positional holds
// every capture group in pattern order, Named only the named groups.
func (p *Pattern) Match(line string) linetypes.MatchResult {
	groups := p.re.FindStringSubmatch(line)
	if groups == nil {
		return linetypes.MatchResult{}
	}

	result := linetypes.MatchResult{
		Matched:    true,
		Positional: groups[1:],
	}

	for i, name := range p.re.SubexpNames() {
		if name == "" || i >= len(groups) {
			continue
		}
		if result.Named == nil {
			result.Named = make(map[string]string)
		}
		result.Named[name] = groups[i]
	}

	return result
}

// String returns the source expression the pattern was compiled from.
func (p *Pattern) String() string {
	return p.expr
}

// Anchored reports whether the pattern requires a whole-line match.
func (p *Pattern) Anchored() bool {
	return p.anchored
}
