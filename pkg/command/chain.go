package command

import "lineshell/pkg/linetypes"

// Chain builds and dispatches a singly-linked sequence of handlers
// without a coordinating registry. Handlers are evaluated in link
// order, first match wins.
type Chain struct {
	head linetypes.Handler
	tail linetypes.Handler
	size int
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Link appends h to the end of the chain by re-pointing the current
// tail's Next link. It returns the chain for call chaining.
func (c *Chain) Link(h linetypes.Handler) *Chain {
	if h == nil {
		return c
	}
	if c.head == nil {
		c.head = h
	} else {
		c.tail.SetNext(h)
	}
	c.tail = h
	c.size++
	return c
}

// LinkFunc compiles expr, wraps action as a function-backed command,
// and appends it. An invalid expression returns a
// *pattern.CompileError and leaves the chain unchanged.
func (c *Chain) LinkFunc(expr string, action linetypes.Action, opts ...Option) error {
	cmd, err := NewFunc(expr, action, opts...)
	if err != nil {
		return err
	}
	c.Link(cmd)
	return nil
}

// Handle dispatches line from the head of the chain. An empty chain
// handles nothing.
func (c *Chain) Handle(line string) (linetypes.Outcome, error) {
	if c.head == nil {
		return linetypes.NotHandled, nil
	}
	return Dispatch(c.head, line)
}

// Head returns the chain's entry handler, or nil when empty.
func (c *Chain) Head() linetypes.Handler {
	return c.head
}

// Len returns the number of linked handlers.
func (c *Chain) Len() int {
	return c.size
}
