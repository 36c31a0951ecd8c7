package typeinfo

// Built-in types of the script language. bool is integral but deliberately
// not Arithmetic so boolean values are never folded as numbers.
var (
	VoidType     = Register("void", Void)
	BoolType     = Register("bool", 0)
	IntType      = Register("int", Arithmetic)
	LongType     = Register("long", Arithmetic)
	FloatType    = Register("float", Arithmetic)
	DoubleType   = Register("double", Arithmetic)
	StringType   = Register("string", 0)
	FunctionType = Register("function", 0)
)
