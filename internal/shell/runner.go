// Package shell wires the dispatch core to an interactive terminal: a
// readline-backed line source with a dynamic prompt, the demo stack
// commands, and declarative reply patterns loaded from YAML.
package shell

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"lineshell/internal/logger"
	"lineshell/pkg/commander"
)

// Config carries the interactive runner's settings, resolved by the CLI
// layer from flags, environment, and config file.
type Config struct {
	// Prompt is the base prompt text, without the trailing marker.
	Prompt string
	// HistoryFile enables persistent readline history when non-empty.
	HistoryFile string
	// PatternsFile points at a YAML reply-pattern file, optional.
	PatternsFile string
	// Notice overrides the unknown-command notice format, optional.
	Notice string
	// ContinueOnError keeps the loop alive when a handler fails.
	ContinueOnError bool
}

// Runner drives an interactive dispatch session over readline.
type Runner struct {
	cmdr  *commander.Commander
	rl    *readline.Instance
	stack *Stack
	base  string
}

// readlineSource adapts a readline instance to the LineReader
// capability. It also implements prompt rendering, so the dispatch loop
// hands it the re-evaluated prompt each iteration.
type readlineSource struct {
	rl *readline.Instance
}

func (r *readlineSource) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		// Ctrl-C and Ctrl-D both end the session cleanly.
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}
	return line, nil
}

func (r *readlineSource) SetPrompt(p string) {
	r.rl.SetPrompt(p)
}

// NewRunner builds the interactive session: readline source, commander
// with builtins, the stack demo commands, and any configured reply
// patterns.
func NewRunner(cfg Config) (*Runner, error) {
	base := cfg.Prompt
	if base == "" {
		base = "lineshell"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          base + "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize readline: %w", err)
	}

	opts := []commander.Option{
		commander.WithReader(&readlineSource{rl: rl}),
	}
	if cfg.Notice != "" {
		opts = append(opts, commander.WithNotice(cfg.Notice))
	}
	if cfg.ContinueOnError {
		opts = append(opts, commander.WithContinueOnError())
	}

	cmdr, err := commander.New(opts...)
	if err != nil {
		_ = rl.Close()
		return nil, err
	}

	stack := NewStack()
	if err := RegisterStackCommands(cmdr, stack); err != nil {
		_ = rl.Close()
		return nil, err
	}

	if cfg.PatternsFile != "" {
		patterns, err := LoadPatterns(cfg.PatternsFile)
		if err != nil {
			_ = rl.Close()
			return nil, err
		}
		if err := patterns.Register(cmdr); err != nil {
			_ = rl.Close()
			return nil, err
		}
	}

	return &Runner{cmdr: cmdr, rl: rl, stack: stack, base: base}, nil
}

// Commander exposes the underlying registry, mainly for tests.
func (r *Runner) Commander() *commander.Commander {
	return r.cmdr
}

// prompt renders the base prompt plus the live stack depth, so the
// prompt reflects state changes between iterations.
func (r *Runner) prompt() string {
	if n := r.stack.Len(); n > 0 {
		return fmt.Sprintf("%s[%d]> ", r.base, n)
	}
	return r.base + "> "
}

// Run blocks in the dispatch loop until exit, Ctrl-D, or a propagated
// handler error.
func (r *Runner) Run() error {
	defer func() { _ = r.rl.Close() }()

	shellLog := logger.NewStyledLogger("Shell")
	shellLog.Info("interactive session started", "session", r.cmdr.Session().ID())

	err := r.cmdr.Run(r.prompt)

	shellLog.Info("interactive session ended", "session", r.cmdr.Session().ID())
	return err
}
