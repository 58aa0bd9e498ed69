package shell

import (
	"fmt"
	"strings"

	"lineshell/pkg/command"
	"lineshell/pkg/commander"
	"lineshell/pkg/linetypes"
)

// Stack is the mutable state the demo commands share. It is owned by
// one session; no locking, per the single-threaded dispatch model.
type Stack struct {
	items []string
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push appends a value.
func (s *Stack) Push(v string) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value; ok is false when empty.
func (s *Stack) Pop() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, true
}

// Clear drops all values.
func (s *Stack) Clear() {
	s.items = nil
}

// Len returns the number of stacked values.
func (s *Stack) Len() int {
	return len(s.items)
}

// String renders the stack bottom-first.
func (s *Stack) String() string {
	return "[" + strings.Join(s.items, ", ") + "]"
}

// PopCommand pops and prints the top of the stack. It is written in the
// embedded-base style: the type embeds *command.Command and overrides
// Act.
type PopCommand struct {
	*command.Command
	stack *Stack
	out   linetypes.LineWriter
}

// NewPopCommand constructs the pop command against shared stack state.
func NewPopCommand(stack *Stack, out linetypes.LineWriter) (*PopCommand, error) {
	base, err := command.New(`pop`, command.Help("pop - print and remove the top of the stack"))
	if err != nil {
		return nil, err
	}
	c := &PopCommand{Command: base, stack: stack, out: out}
	base.Bind(c)
	return c, nil
}

// Act pops the stack or reports that it is empty.
func (c *PopCommand) Act(_ linetypes.MatchResult, _ string) error {
	v, ok := c.stack.Pop()
	if !ok {
		return c.out.WriteLine("stack empty")
	}
	return c.out.WriteLine(v)
}

// ClearCommand empties the stack.
type ClearCommand struct {
	*command.Command
	stack *Stack
}

// NewClearCommand constructs the clear command.
func NewClearCommand(stack *Stack) (*ClearCommand, error) {
	base, err := command.New(`clear`, command.Help("clear - empty the stack"))
	if err != nil {
		return nil, err
	}
	c := &ClearCommand{Command: base, stack: stack}
	base.Bind(c)
	return c, nil
}

// Act drops every stacked value.
func (c *ClearCommand) Act(_ linetypes.MatchResult, _ string) error {
	c.stack.Clear()
	return nil
}

// ShowCommand prints the whole stack.
type ShowCommand struct {
	*command.Command
	stack *Stack
	out   linetypes.LineWriter
}

// NewShowCommand constructs the show command.
func NewShowCommand(stack *Stack, out linetypes.LineWriter) (*ShowCommand, error) {
	base, err := command.New(`show`, command.Help("show - print the stack"))
	if err != nil {
		return nil, err
	}
	c := &ShowCommand{Command: base, stack: stack, out: out}
	base.Bind(c)
	return c, nil
}

// Act prints the stack contents bottom-first.
func (c *ShowCommand) Act(_ linetypes.MatchResult, _ string) error {
	return c.out.WriteLine(c.stack.String())
}

// RegisterStackCommands registers the demo command set on cmdr: add is
// function-backed, pop/clear/show are embedded-base types. Both
// registration styles meet at the same handler interface.
func RegisterStackCommands(cmdr *commander.Commander, stack *Stack) error {
	err := cmdr.AddFunc(`add (.+)`, func(_ linetypes.Handler, m linetypes.MatchResult, _ string) error {
		stack.Push(m.Group(0))
		return nil
	}, "add <value> - push a value onto the stack")
	if err != nil {
		return fmt.Errorf("register add: %w", err)
	}

	pop, err := NewPopCommand(stack, cmdr.Writer())
	if err != nil {
		return fmt.Errorf("register pop: %w", err)
	}
	if err := cmdr.Add(pop); err != nil {
		return err
	}

	clear, err := NewClearCommand(stack)
	if err != nil {
		return fmt.Errorf("register clear: %w", err)
	}
	if err := cmdr.Add(clear); err != nil {
		return err
	}

	show, err := NewShowCommand(stack, cmdr.Writer())
	if err != nil {
		return fmt.Errorf("register show: %w", err)
	}
	return cmdr.Add(show)
}
