package types

// Op is the conversion instruction needed to move a value between two
// types. The names match the IR mnemonics.
type Op uint8

const (
	OpNone Op = iota
	OpZExt
	OpTrunc
	OpSIToFP
	OpUIToFP
	OpFPToSI
	OpFPToUI
	OpFPExt
	OpFPTrunc
	OpIntToPtr
	OpPtrToInt
)

func (o Op) String() string {
	switch o {
	case OpZExt:
		return "zext"
	case OpTrunc:
		return "trunc"
	case OpSIToFP:
		return "sitofp"
	case OpUIToFP:
		return "uitofp"
	case OpFPToSI:
		return "fptosi"
	case OpFPToUI:
		return "fptoui"
	case OpFPExt:
		return "fpext"
	case OpFPTrunc:
		return "fptrunc"
	case OpIntToPtr:
		return "inttoptr"
	case OpPtrToInt:
		return "ptrtoint"
	default:
		return ""
	}
}

// pointerLike covers everything that lowers to an opaque pointer.
func pointerLike(t *Type) bool {
	return t.IsPointer() || t.IsFunc()
}

// Coercion reports the conversion from one type to another.
// Integer widening is always a zero extension; signedness only picks the
// int<->float instruction. Aggregates and identical shapes need nothing.
func Coercion(from, to *Type) Op {
	switch {
	case from.IsInteger() && to.IsInteger():
		switch {
		case to.Width > from.Width:
			return OpZExt
		case to.Width < from.Width:
			return OpTrunc
		}
	case from.IsInteger() && to.IsFloat():
		if from.IsUnsigned() {
			return OpUIToFP
		}
		return OpSIToFP
	case from.IsFloat() && to.IsInteger():
		if to.IsUnsigned() {
			return OpFPToUI
		}
		return OpFPToSI
	case from.IsFloat() && to.IsFloat():
		switch {
		case to.Width > from.Width:
			return OpFPExt
		case to.Width < from.Width:
			return OpFPTrunc
		}
	case from.IsInteger() && pointerLike(to):
		return OpIntToPtr
	case pointerLike(from) && to.IsInteger():
		return OpPtrToInt
	}
	return OpNone
}

// Arithmetic returns the common operand type of a binary arithmetic
// expression: a float side wins over an integer side, two floats of
// different width meet at f64, two integers meet at the wider one. On equal
// widths the left operand's type is kept.
func Arithmetic(left, right *Type) *Type {
	switch {
	case left.IsFloat() && right.IsFloat():
		if left.Width != right.Width {
			return F64
		}
		return left
	case left.IsFloat():
		return left
	case right.IsFloat():
		return right
	case left.IsInteger() && right.IsInteger():
		if right.Width > left.Width {
			return right
		}
		return left
	}
	return left
}
