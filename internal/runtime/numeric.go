package runtime

import (
	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/typeinfo"
)

// rank orders the numeric types for promotion. Mixed operands are evaluated
// in the higher rank: int < long < float < double.
type rank int

const (
	rankNone rank = iota
	rankInt
	rankLong
	rankFloat
	rankDouble
)

type integer interface{ ~int32 | ~int64 }
type floating interface{ ~float32 | ~float64 }

func rankOf(v Value) rank {
	switch v.Interface().(type) {
	case int32:
		return rankInt
	case int64:
		return rankLong
	case float32:
		return rankFloat
	case float64:
		return rankDouble
	}
	return rankNone
}

func asInt64(v Value) int64 {
	switch x := v.Interface().(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	}
	return 0
}

func asFloat64(v Value) float64 {
	switch x := v.Interface().(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// IsNumeric reports whether v holds an arithmetic value, reading through cells.
func IsNumeric(v Value) bool {
	return rankOf(v) != rankNone
}

// EvalBinary applies a numeric operator to two arithmetic values with the
// runtime's promotion rules. Integer division or remainder by zero, and
// operators that do not apply to the promoted type, are errors.
func EvalBinary(op Operator, lhs, rhs Value) (Value, error) {
	lr, rr := rankOf(lhs), rankOf(rhs)
	if op == OpInvalid || lr == rankNone || rr == rankNone {
		return Value{}, errors.UndefinedOperator(op.String(), lhs.TypeName(), rhs.TypeName())
	}

	switch max(lr, rr) {
	case rankInt:
		return integerOp(op, int32(asInt64(lhs)), int32(asInt64(rhs)), Int)
	case rankLong:
		return integerOp(op, asInt64(lhs), asInt64(rhs), Long)
	case rankFloat:
		return floatOp(op, float32(asFloat64(lhs)), float32(asFloat64(rhs)), Float)
	default:
		return floatOp(op, asFloat64(lhs), asFloat64(rhs), Double)
	}
}

// EvalUnary applies a unary numeric operator.
func EvalUnary(op Operator, v Value) (Value, error) {
	switch rankOf(v) {
	case rankInt:
		return unaryOp(op, int32(asInt64(v)), Int, true)
	case rankLong:
		return unaryOp(op, asInt64(v), Long, true)
	case rankFloat:
		return unaryOp(op, float32(asFloat64(v)), Float, false)
	case rankDouble:
		return unaryOp(op, asFloat64(v), Double, false)
	}
	return Value{}, errors.UndefinedOperator(op.String(), v.TypeName(), "")
}

func compare[T integer | floating](op Operator, a, b T) (Value, bool) {
	switch op {
	case OpEquals:
		return Bool(a == b), true
	case OpNotEqual:
		return Bool(a != b), true
	case OpLess:
		return Bool(a < b), true
	case OpGreater:
		return Bool(a > b), true
	case OpLessEqual:
		return Bool(a <= b), true
	case OpGreaterEqual:
		return Bool(a >= b), true
	}
	return Value{}, false
}

func integerOp[T integer](op Operator, a, b T, box func(T) Value) (Value, error) {
	if v, ok := compare(op, a, b); ok {
		return v, nil
	}

	switch op {
	case OpSum:
		return box(a + b), nil
	case OpDifference:
		return box(a - b), nil
	case OpProduct:
		return box(a * b), nil
	case OpQuotient:
		if b == 0 {
			return Value{}, errors.DivisionByZero(op.String())
		}
		return box(a / b), nil
	case OpRemainder:
		if b == 0 {
			return Value{}, errors.DivisionByZero(op.String())
		}
		return box(a % b), nil
	case OpBitwiseAnd:
		return box(a & b), nil
	case OpBitwiseOr:
		return box(a | b), nil
	case OpBitwiseXor:
		return box(a ^ b), nil
	case OpShiftLeft, OpShiftRight:
		if b < 0 {
			return Value{}, errors.UndefinedOperator(op.String(), "negative shift", "")
		}
		if op == OpShiftLeft {
			return box(a << b), nil
		}
		return box(a >> b), nil
	}

	return Value{}, errors.UndefinedOperator(op.String(), box(a).TypeName(), box(b).TypeName())
}

func floatOp[T floating](op Operator, a, b T, box func(T) Value) (Value, error) {
	if v, ok := compare(op, a, b); ok {
		return v, nil
	}

	switch op {
	case OpSum:
		return box(a + b), nil
	case OpDifference:
		return box(a - b), nil
	case OpProduct:
		return box(a * b), nil
	case OpQuotient:
		return box(a / b), nil
	}

	return Value{}, errors.UndefinedOperator(op.String(), box(a).TypeName(), box(b).TypeName())
}

func unaryOp[T integer | floating](op Operator, a T, box func(T) Value, integral bool) (Value, error) {
	switch op {
	case OpUnaryMinus:
		return box(-a), nil
	case OpUnaryPlus:
		return box(a), nil
	case OpBitwiseComplement:
		if integral {
			return box(complement(a)), nil
		}
	}
	return Value{}, errors.UndefinedOperator(op.String(), box(a).TypeName(), "")
}

func complement[T integer | floating](a T) T {
	switch x := any(a).(type) {
	case int32:
		return T(^x)
	case int64:
		return T(^x)
	}
	return a
}

// Conversions names the primitive conversion functions of the language.
var Conversions = map[string]typeinfo.TypeInfo{
	"double": typeinfo.DoubleType,
	"int":    typeinfo.IntType,
	"float":  typeinfo.FloatType,
	"long":   typeinfo.LongType,
}

// Convert applies the named primitive conversion to an arithmetic value.
func Convert(name string, v Value) (Value, error) {
	target, ok := Conversions[name]
	if !ok || !IsNumeric(v) {
		return Value{}, errors.BadConversion(v.TypeName(), name)
	}
	return convertTo(target, v), nil
}

func convertTo(target typeinfo.TypeInfo, v Value) Value {
	switch target.Key() {
	case typeinfo.IntType.Key():
		if rankOf(v) >= rankFloat {
			return Int(int32(asFloat64(v)))
		}
		return Int(int32(asInt64(v)))
	case typeinfo.LongType.Key():
		if rankOf(v) >= rankFloat {
			return Long(int64(asFloat64(v)))
		}
		return Long(asInt64(v))
	case typeinfo.FloatType.Key():
		return Float(float32(asFloat64(v)))
	default:
		return Double(asFloat64(v))
	}
}
