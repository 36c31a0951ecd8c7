package runtime

// Operator identifies an operator understood by the numeric dispatcher.
type Operator int

const (
	OpInvalid Operator = iota

	// Comparison
	OpEquals
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpNotEqual

	// Arithmetic
	OpSum
	OpDifference
	OpProduct
	OpQuotient
	OpRemainder

	// Bitwise
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpShiftLeft
	OpShiftRight

	// Unary
	OpUnaryMinus
	OpUnaryPlus
	OpBitwiseComplement
)

var binaryOperators = map[string]Operator{
	"==": OpEquals,
	"<":  OpLess,
	">":  OpGreater,
	"<=": OpLessEqual,
	">=": OpGreaterEqual,
	"!=": OpNotEqual,
	"+":  OpSum,
	"-":  OpDifference,
	"*":  OpProduct,
	"/":  OpQuotient,
	"%":  OpRemainder,
	"&":  OpBitwiseAnd,
	"|":  OpBitwiseOr,
	"^":  OpBitwiseXor,
	"<<": OpShiftLeft,
	">>": OpShiftRight,
}

var unaryOperators = map[string]Operator{
	"-": OpUnaryMinus,
	"+": OpUnaryPlus,
	"~": OpBitwiseComplement,
}

// ParseOperator maps operator text to a binary Operator. Text the numeric
// dispatcher does not handle, such as "&&" or "=", yields OpInvalid.
func ParseOperator(text string) Operator {
	if op, ok := binaryOperators[text]; ok {
		return op
	}
	return OpInvalid
}

// ParseUnaryOperator maps prefix operator text to a unary Operator.
func ParseUnaryOperator(text string) Operator {
	if op, ok := unaryOperators[text]; ok {
		return op
	}
	return OpInvalid
}

// IsComparison reports whether op yields a bool.
func (op Operator) IsComparison() bool {
	return op >= OpEquals && op <= OpNotEqual
}

func (op Operator) String() string {
	for text, o := range binaryOperators {
		if o == op {
			return text
		}
	}
	for text, o := range unaryOperators {
		if o == op {
			return text
		}
	}
	return "invalid"
}
