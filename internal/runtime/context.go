package runtime

import (
	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/typeinfo"
)

// Flow tells an enclosing construct how evaluation left a node. Loop control
// and returns travel as Flow values, never as errors.
type Flow uint8

const (
	FlowNormal Flow = iota
	FlowBreak
	FlowContinue
	FlowReturn
)

func (f Flow) String() string {
	switch f {
	case FlowNormal:
		return "normal"
	case FlowBreak:
		return "break"
	case FlowContinue:
		return "continue"
	case FlowReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating a node.
type Result struct {
	Value Value
	Flow  Flow
}

// Normal wraps v in a result that continues with the next statement.
func Normal(v Value) Result { return Result{Value: v} }

// slot is one binding. A slot with a cell stores its value natively.
type slot struct {
	value Value
	cell  *int32
}

func (s *slot) load() Value {
	if s.cell != nil {
		return IntRef(s.cell)
	}
	return s.value
}

type scope map[string]*slot

// Context is the variable environment of one execution. It is not safe for
// concurrent use; concurrent executions over the same tree each use their own
// Context.
type Context struct {
	scopes []scope
}

// NewContext creates a context holding a single global scope.
func NewContext() *Context {
	return &Context{scopes: []scope{make(scope)}}
}

// Depth returns the number of open scopes, the global scope included.
func (c *Context) Depth() int { return len(c.scopes) }

func (c *Context) PushScope() {
	c.scopes = append(c.scopes, make(scope))
}

// PopScope closes the innermost scope. The global scope is never popped.
func (c *Context) PopScope() {
	if len(c.scopes) > 1 {
		c.scopes[len(c.scopes)-1] = nil
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// WithScope runs fn inside a fresh scope, closing it on every exit path.
func (c *Context) WithScope(fn func() (Result, error)) (Result, error) {
	c.PushScope()
	defer c.PopScope()
	return fn()
}

func (c *Context) current() scope { return c.scopes[len(c.scopes)-1] }

// Declare introduces an unset variable in the innermost scope.
func (c *Context) Declare(name string) error {
	if _, ok := c.current()[name]; ok {
		return errors.Redeclared(name)
	}
	c.current()[name] = &slot{value: Void()}
	return nil
}

// Bind sets name to v in the innermost scope, replacing any binding there.
func (c *Context) Bind(name string, v Value) {
	c.current()[name] = &slot{value: v.Decay()}
}

// BindCell binds name to a native int32 cell in the innermost scope. Reads
// observe the cell and assignments write through to it.
func (c *Context) BindCell(name string, cell *int32) {
	c.current()[name] = &slot{cell: cell}
}

func (c *Context) lookup(name string) (*slot, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if s, ok := c.scopes[i][name]; ok {
			return s, true
		}
	}
	return nil, false
}

// Get resolves name from the innermost scope outwards.
func (c *Context) Get(name string) (Value, error) {
	s, ok := c.lookup(name)
	if !ok {
		return Value{}, errors.UndefinedVariable(name)
	}
	return s.load(), nil
}

// Assign stores v into the nearest binding of name. A numeric binding keeps
// its type, converts incoming numbers and rejects anything else; other
// bindings are replaced.
func (c *Context) Assign(name string, v Value) error {
	s, ok := c.lookup(name)
	if !ok {
		return errors.UndefinedVariable(name)
	}

	if s.cell != nil {
		if !IsNumeric(v) {
			return errors.TypeMismatch("int", v.TypeName())
		}
		*s.cell, _ = convertTo(typeinfo.IntType, v).AsInt()
		return nil
	}

	if IsNumeric(s.value) {
		if !IsNumeric(v) {
			return errors.TypeMismatch(s.value.TypeName(), v.TypeName())
		}
		s.value = convertTo(s.value.Type(), v)
		return nil
	}
	s.value = v.Decay()
	return nil
}
