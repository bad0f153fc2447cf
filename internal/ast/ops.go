package ast

// BinaryOp enumerates binary operators after desugaring.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
	// OpRange and OpRangeIncl only appear as arguments to reducers and in
	// `for` headers; they have no value of their own.
	OpRange
	OpRangeIncl
)

var binaryOpNames = [...]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpRem:       "%",
	OpBitAnd:    "&",
	OpBitOr:     "|",
	OpBitXor:    "^",
	OpShl:       "<<",
	OpShr:       ">>",
	OpEq:        "==",
	OpNe:        "!=",
	OpLt:        "<",
	OpGt:        ">",
	OpLe:        "<=",
	OpGe:        ">=",
	OpAnd:       "&&",
	OpOr:        "||",
	OpRange:     "..",
	OpRangeIncl: "..=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsComparison reports whether op yields a boolean.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical reports whether op short-circuits.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// IsRange reports whether op builds a range.
func (op BinaryOp) IsRange() bool {
	return op == OpRange || op == OpRangeIncl
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
	OpAddr
	OpDeref
)

var unaryOpNames = [...]string{
	OpNeg:    "-",
	OpNot:    "!",
	OpBitNot: "~",
	OpAddr:   "&",
	OpDeref:  "*",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "?"
}
