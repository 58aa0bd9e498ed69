package commander

import (
	"fmt"

	"lineshell/pkg/command"
	"lineshell/pkg/linetypes"
)

// registerBuiltins installs the help and exit handlers at the front of
// the evaluation order.
func (c *Commander) registerBuiltins() error {
	help, err := command.NewFunc(
		`help(?:\s+(?P<command>\S+))?`,
		c.helpAction,
		command.Help("help [command] - list commands, or show help for one"),
	)
	if err != nil {
		return err
	}
	if err := c.Add(help); err != nil {
		return err
	}

	exit, err := command.NewFunc(
		`exit|quit`,
		c.exitAction,
		command.Help("exit - leave the shell"),
	)
	if err != nil {
		return err
	}
	return c.Add(exit)
}

// helpAction enumerates the registered handlers' help text, or shows
// the help of the single handler that would handle the given argument.
// Help is pulled from the handlers on demand, so it never goes stale as
// handlers are added.
func (c *Commander) helpAction(_ linetypes.Handler, m linetypes.MatchResult, _ string) error {
	name := m.Get("command")
	if name != "" {
		return c.writeCommandHelp(name)
	}

	if err := c.out.WriteLine("available commands:"); err != nil {
		return err
	}
	for _, h := range c.Handlers() {
		text := h.HelpText()
		if text == "" {
			continue
		}
		if err := c.out.WriteLine("  " + text); err != nil {
			return err
		}
	}
	return nil
}

// writeCommandHelp resolves name to the first handler that could handle
// it as a line and prints that handler's help.
func (c *Commander) writeCommandHelp(name string) error {
	for _, h := range c.Handlers() {
		if !h.CanHandle(name) {
			continue
		}
		text := h.HelpText()
		if text == "" {
			text = fmt.Sprintf("no help available for %q", name)
		}
		return c.out.WriteLine(text)
	}
	return c.out.WriteLine(fmt.Sprintf("no such command: %q", name))
}

// exitAction stops the shared session, signalling the dispatch loop to
// terminate before its next read.
func (c *Commander) exitAction(_ linetypes.Handler, _ linetypes.MatchResult, _ string) error {
	c.session.Stop()
	return nil
}
