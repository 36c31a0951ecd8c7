package ast

import (
	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

// function is a script function built from a Def node. The body is shared
// with the tree; calls never modify it.
type function struct {
	name   string
	params []string
	body   *Node
}

func (f *function) Name() string { return f.name }

func (f *function) Call(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(f.params) {
		return runtime.Value{}, errors.ArityMismatch(f.name, len(f.params), len(args))
	}

	r, err := ctx.WithScope(func() (runtime.Result, error) {
		for i, p := range f.params {
			ctx.Bind(p, args[i])
		}
		return f.body.Eval(ctx)
	})
	return r.Value.Decay(), err
}

// evalDef binds the function in the current scope. Children are the name,
// an optional parameter list and the body, which is always last.
func (n *Node) evalDef(ctx *runtime.Context) (runtime.Result, error) {
	if len(n.children) < 2 {
		return runtime.Result{}, errors.MalformedTree("function definition without a body")
	}

	fn := &function{name: n.children[0].text, body: n.Last()}
	if len(n.children) > 2 && n.children[1].kind == KindArgList {
		for _, p := range n.children[1].children {
			fn.params = append(fn.params, p.declaredName())
		}
	}

	v := runtime.Func(fn)
	ctx.Bind(fn.name, v)
	return runtime.Normal(v), nil
}

func (n *Node) evalCall(ctx *runtime.Context) (runtime.Result, error) {
	callee := n.children[0]

	var args []runtime.Value
	if len(n.children) > 1 {
		for _, a := range n.children[1].children {
			r, err := a.Eval(ctx)
			if err != nil || r.Flow != runtime.FlowNormal {
				return r, err
			}
			args = append(args, r.Value.Decay())
		}
	}

	var target runtime.Value
	if callee.kind == KindId {
		v, err := ctx.Get(callee.text)
		if err != nil {
			// Primitive conversions are available unless shadowed by a binding.
			if _, ok := runtime.Conversions[callee.text]; ok && len(args) == 1 {
				cv, cerr := runtime.Convert(callee.text, args[0])
				return runtime.Normal(cv), cerr
			}
			return runtime.Result{}, err
		}
		target = v
	} else {
		r, err := callee.Eval(ctx)
		if err != nil || r.Flow != runtime.FlowNormal {
			return r, err
		}
		target = r.Value
	}

	fn, err := target.AsFunction()
	if err != nil {
		return runtime.Result{}, err
	}
	v, err := fn.Call(ctx, args)
	return runtime.Normal(v), err
}
