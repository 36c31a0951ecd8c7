// Package runtime holds the value system and execution context the script
// engine evaluates syntax trees against. It is intentionally small: boxed
// values tagged with a typeinfo identity, the numeric operator dispatcher
// shared by the evaluator and the constant folder, and a scoped variable
// environment.
package runtime

import (
	"fmt"
	"strconv"

	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/typeinfo"
)

// Function is a callable script value.
type Function interface {
	Name() string
	Call(ctx *Context, args []Value) (Value, error)
}

// Value is a boxed script value. The zero Value is void.
//
// A Value built by IntRef aliases a native int32 cell: reads observe the
// cell's current content and its type is int&.
type Value struct {
	ti   typeinfo.TypeInfo
	data any
}

var intRefType = typeinfo.AsReference(typeinfo.IntType)

func Void() Value { return Value{ti: typeinfo.VoidType} }

func Bool(b bool) Value        { return Value{ti: typeinfo.BoolType, data: b} }
func Int(i int32) Value        { return Value{ti: typeinfo.IntType, data: i} }
func Long(i int64) Value       { return Value{ti: typeinfo.LongType, data: i} }
func Float(f float32) Value    { return Value{ti: typeinfo.FloatType, data: f} }
func Double(f float64) Value   { return Value{ti: typeinfo.DoubleType, data: f} }
func String(s string) Value    { return Value{ti: typeinfo.StringType, data: s} }
func Func(fn Function) Value   { return Value{ti: typeinfo.FunctionType, data: fn} }
func IntRef(cell *int32) Value { return Value{ti: intRefType, data: cell} }

// Type returns the identity of the value as stored, including reference
// qualification for native cells.
func (v Value) Type() typeinfo.TypeInfo { return v.ti }

// IsVoid reports whether v carries no value.
func (v Value) IsVoid() bool { return v.data == nil }

// Interface returns the underlying Go value, reading through native cells.
func (v Value) Interface() any {
	if cell, ok := v.data.(*int32); ok {
		return *cell
	}
	return v.data
}

// Decay returns v with any native cell read out into a plain value.
func (v Value) Decay() Value {
	if cell, ok := v.data.(*int32); ok {
		return Int(*cell)
	}
	return v
}

// AsBool extracts a boolean, failing for any other type.
func (v Value) AsBool() (bool, error) {
	b, ok := v.data.(bool)
	if !ok {
		return false, errors.TypeMismatch("bool", v.TypeName())
	}
	return b, nil
}

// AsInt extracts an int, reading through native cells.
func (v Value) AsInt() (int32, error) {
	switch x := v.data.(type) {
	case int32:
		return x, nil
	case *int32:
		return *x, nil
	}
	return 0, errors.TypeMismatch("int", v.TypeName())
}

// AsFunction extracts a callable.
func (v Value) AsFunction() (Function, error) {
	fn, ok := v.data.(Function)
	if !ok {
		return nil, errors.NotCallable(v.String())
	}
	return fn, nil
}

// TypeName names the value's type for diagnostics. Native cells report the
// type they hold.
func (v Value) TypeName() string {
	if v.ti.IsUndef() {
		return "undefined"
	}
	return v.ti.BareName()
}

// String renders the value the way the script language prints it.
func (v Value) String() string {
	switch x := v.Interface().(type) {
	case nil:
		return "void"
	case bool:
		return strconv.FormatBool(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case Function:
		return "function " + x.Name()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Equal compares two values by decayed type and content.
func (v Value) Equal(other Value) bool {
	return v.ti.BareEqual(other.ti) && v.Interface() == other.Interface()
}
