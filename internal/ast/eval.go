package ast

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

// Eval executes the node generically. Specialized nodes run their native body.
// Loop control and returns are reported through the result's Flow.
func (n *Node) Eval(ctx *runtime.Context) (runtime.Result, error) {
	switch n.kind {
	case KindConstant:
		return runtime.Normal(n.value), nil
	case KindId:
		v, err := ctx.Get(n.text)
		return runtime.Normal(v), err
	case KindVarDecl:
		name := n.declaredName()
		return runtime.Normal(runtime.Void()), ctx.Declare(name)
	case KindEquation:
		return n.evalEquation(ctx)
	case KindBinary:
		return n.evalBinary(ctx)
	case KindPrefix:
		return n.evalPrefix(ctx)
	case KindIf, KindTernaryCond:
		return n.evalIf(ctx)
	case KindBlock:
		return ctx.WithScope(func() (runtime.Result, error) {
			return evalSequence(ctx, n.children)
		})
	case KindFor:
		return n.evalFor(ctx)
	case KindWhile:
		return n.evalWhile(ctx)
	case KindReturn:
		v := runtime.Void()
		if len(n.children) > 0 {
			r, err := n.children[0].Eval(ctx)
			if err != nil || r.Flow != runtime.FlowNormal {
				return r, err
			}
			v = r.Value.Decay()
		}
		return runtime.Result{Value: v, Flow: runtime.FlowReturn}, nil
	case KindBreak:
		return runtime.Result{Value: runtime.Void(), Flow: runtime.FlowBreak}, nil
	case KindContinue:
		return runtime.Result{Value: runtime.Void(), Flow: runtime.FlowContinue}, nil
	case KindNoop, KindArgList:
		return runtime.Normal(runtime.Void()), nil
	case KindDef:
		return n.evalDef(ctx)
	case KindFunCall:
		return n.evalCall(ctx)
	case KindSpecialized:
		return n.body(ctx, n.children)
	}

	return runtime.Result{}, errors.MalformedTree(fmt.Sprintf("cannot evaluate %s at %s", n.kind, n.span))
}

// evalSequence runs statements in order and yields the last value. A
// non-normal flow stops the sequence and is handed upwards.
func evalSequence(ctx *runtime.Context, stmts []*Node) (runtime.Result, error) {
	last := runtime.Normal(runtime.Void())
	for _, s := range stmts {
		r, err := s.Eval(ctx)
		if err != nil || r.Flow != runtime.FlowNormal {
			return r, err
		}
		last = r
	}
	return last, nil
}

func (n *Node) declaredName() string {
	if len(n.children) > 0 {
		return n.children[0].text
	}
	return n.text
}

func (n *Node) evalEquation(ctx *runtime.Context) (runtime.Result, error) {
	lhs, rhsNode := n.children[0], n.children[1]

	r, err := rhsNode.Eval(ctx)
	if err != nil || r.Flow != runtime.FlowNormal {
		return r, err
	}
	v := r.Value

	if lhs.kind == KindVarDecl {
		name := lhs.declaredName()
		if err := ctx.Declare(name); err != nil {
			return runtime.Result{}, err
		}
		ctx.Bind(name, v)
		return runtime.Normal(v), nil
	}

	if lhs.kind != KindId {
		return runtime.Result{}, errors.MalformedTree(fmt.Sprintf("cannot assign to %s", lhs.kind))
	}

	if n.text != "=" {
		cur, err := ctx.Get(lhs.text)
		if err != nil {
			return runtime.Result{}, err
		}
		if v, err = runtime.EvalBinary(runtime.ParseOperator(strings.TrimSuffix(n.text, "=")), cur, v); err != nil {
			return runtime.Result{}, err
		}
	}

	if err := ctx.Assign(lhs.text, v); err != nil {
		return runtime.Result{}, err
	}
	return runtime.Normal(v), nil
}

func (n *Node) evalBinary(ctx *runtime.Context) (runtime.Result, error) {
	l, err := n.children[0].Eval(ctx)
	if err != nil || l.Flow != runtime.FlowNormal {
		return l, err
	}

	if n.text == "&&" || n.text == "||" {
		lb, err := l.Value.AsBool()
		if err != nil {
			return runtime.Result{}, err
		}
		if lb == (n.text == "||") {
			return runtime.Normal(runtime.Bool(lb)), nil
		}
		r, err := n.children[1].Eval(ctx)
		if err != nil || r.Flow != runtime.FlowNormal {
			return r, err
		}
		rb, err := r.Value.AsBool()
		return runtime.Normal(runtime.Bool(rb)), err
	}

	r, err := n.children[1].Eval(ctx)
	if err != nil || r.Flow != runtime.FlowNormal {
		return r, err
	}

	lv, rv := l.Value, r.Value
	if runtime.IsNumeric(lv) && runtime.IsNumeric(rv) {
		v, err := runtime.EvalBinary(runtime.ParseOperator(n.text), lv, rv)
		return runtime.Normal(v), err
	}

	switch n.text {
	case "==":
		return runtime.Normal(runtime.Bool(lv.Equal(rv))), nil
	case "!=":
		return runtime.Normal(runtime.Bool(!lv.Equal(rv))), nil
	case "+":
		if ls, ok := lv.Interface().(string); ok {
			if rs, ok := rv.Interface().(string); ok {
				return runtime.Normal(runtime.String(ls + rs)), nil
			}
		}
	}
	return runtime.Result{}, errors.UndefinedOperator(n.text, lv.TypeName(), rv.TypeName())
}

func (n *Node) evalPrefix(ctx *runtime.Context) (runtime.Result, error) {
	operand := n.children[0]

	if n.text == "++" || n.text == "--" {
		if operand.kind != KindId {
			return runtime.Result{}, errors.MalformedTree(fmt.Sprintf("%s needs an identifier", n.text))
		}
		cur, err := ctx.Get(operand.text)
		if err != nil {
			return runtime.Result{}, err
		}
		op := runtime.OpSum
		if n.text == "--" {
			op = runtime.OpDifference
		}
		next, err := runtime.EvalBinary(op, cur, runtime.Int(1))
		if err != nil {
			return runtime.Result{}, err
		}
		if err := ctx.Assign(operand.text, next); err != nil {
			return runtime.Result{}, err
		}
		v, err := ctx.Get(operand.text)
		return runtime.Normal(v.Decay()), err
	}

	r, err := operand.Eval(ctx)
	if err != nil || r.Flow != runtime.FlowNormal {
		return r, err
	}

	if n.text == "!" {
		b, err := r.Value.AsBool()
		return runtime.Normal(runtime.Bool(!b)), err
	}

	v, err := runtime.EvalUnary(runtime.ParseUnaryOperator(n.text), r.Value)
	return runtime.Normal(v), err
}

func (n *Node) evalIf(ctx *runtime.Context) (runtime.Result, error) {
	c, err := n.children[0].Eval(ctx)
	if err != nil || c.Flow != runtime.FlowNormal {
		return c, err
	}
	cond, err := c.Value.AsBool()
	if err != nil {
		return runtime.Result{}, err
	}

	switch {
	case cond:
		return n.children[1].Eval(ctx)
	case len(n.children) > 2:
		return n.children[2].Eval(ctx)
	}
	return runtime.Normal(runtime.Void()), nil
}

// loopBody runs one iteration and reports whether the loop should stop. A
// return is passed through to the caller of the loop.
func loopBody(ctx *runtime.Context, body *Node) (stop bool, ret runtime.Result, err error) {
	r, err := body.Eval(ctx)
	if err != nil {
		return true, runtime.Result{}, err
	}
	switch r.Flow {
	case runtime.FlowBreak:
		return true, runtime.Normal(runtime.Void()), nil
	case runtime.FlowReturn:
		return true, r, nil
	}
	return false, runtime.Result{}, nil
}

func (n *Node) evalFor(ctx *runtime.Context) (runtime.Result, error) {
	setup, cond, step, body := n.children[0], n.children[1], n.children[2], n.children[3]

	return ctx.WithScope(func() (runtime.Result, error) {
		if _, err := setup.Eval(ctx); err != nil {
			return runtime.Result{}, err
		}
		for {
			c, err := cond.Eval(ctx)
			if err != nil {
				return runtime.Result{}, err
			}
			ok, err := c.Value.AsBool()
			if err != nil {
				return runtime.Result{}, err
			}
			if !ok {
				break
			}
			if stop, ret, err := loopBody(ctx, body); stop {
				return ret, err
			}
			if _, err := step.Eval(ctx); err != nil {
				return runtime.Result{}, err
			}
		}
		return runtime.Normal(runtime.Void()), nil
	})
}

func (n *Node) evalWhile(ctx *runtime.Context) (runtime.Result, error) {
	cond, body := n.children[0], n.children[1]

	for {
		c, err := cond.Eval(ctx)
		if err != nil {
			return runtime.Result{}, err
		}
		ok, err := c.Value.AsBool()
		if err != nil {
			return runtime.Result{}, err
		}
		if !ok {
			return runtime.Normal(runtime.Void()), nil
		}
		if stop, ret, err := loopBody(ctx, body); stop {
			return ret, err
		}
	}
}
