package ir

// Opcode is an instruction opcode.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// binary
	OpAdd
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem

	OpICmp
	OpFCmp

	// casts
	OpTrunc
	OpZExt
	OpSExt
	OpFPTrunc
	OpFPExt
	OpSIToFP
	OpUIToFP
	OpFPToSI
	OpFPToUI
	OpPtrToInt
	OpIntToPtr

	// memory
	OpAlloca
	OpLoad
	OpStore
	OpGEP

	OpCall
	OpPhi
	OpSelect
	OpExtractValue

	// terminators
	OpBr
	OpCondBr
	OpRet
	OpUnreachable
)

var opNames = [...]string{
	OpInvalid:      "invalid",
	OpAdd:          "add",
	OpSub:          "sub",
	OpMul:          "mul",
	OpSDiv:         "sdiv",
	OpUDiv:         "udiv",
	OpSRem:         "srem",
	OpURem:         "urem",
	OpAnd:          "and",
	OpOr:           "or",
	OpXor:          "xor",
	OpShl:          "shl",
	OpLShr:         "lshr",
	OpAShr:         "ashr",
	OpFAdd:         "fadd",
	OpFSub:         "fsub",
	OpFMul:         "fmul",
	OpFDiv:         "fdiv",
	OpFRem:         "frem",
	OpICmp:         "icmp",
	OpFCmp:         "fcmp",
	OpTrunc:        "trunc",
	OpZExt:         "zext",
	OpSExt:         "sext",
	OpFPTrunc:      "fptrunc",
	OpFPExt:        "fpext",
	OpSIToFP:       "sitofp",
	OpUIToFP:       "uitofp",
	OpFPToSI:       "fptosi",
	OpFPToUI:       "fptoui",
	OpPtrToInt:     "ptrtoint",
	OpIntToPtr:     "inttoptr",
	OpAlloca:       "alloca",
	OpLoad:         "load",
	OpStore:        "store",
	OpGEP:          "getelementptr",
	OpCall:         "call",
	OpPhi:          "phi",
	OpSelect:       "select",
	OpExtractValue: "extractvalue",
	OpBr:           "br",
	OpCondBr:       "br",
	OpRet:          "ret",
	OpUnreachable:  "unreachable",
}

func (op Opcode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "invalid"
}

func (op Opcode) IsBinary() bool     { return op >= OpAdd && op <= OpFRem }
func (op Opcode) IsCast() bool       { return op >= OpTrunc && op <= OpIntToPtr }
func (op Opcode) IsTerminator() bool { return op >= OpBr }

// Predicate of icmp/fcmp.
type Predicate uint8

const (
	PredEQ Predicate = iota
	PredNE
	PredSLT
	PredSGT
	PredSLE
	PredSGE
	PredULT
	PredUGT
	PredULE
	PredUGE
	PredOEQ
	PredONE
	PredOLT
	PredOGT
	PredOLE
	PredOGE
)

var predNames = [...]string{
	PredEQ:  "eq",
	PredNE:  "ne",
	PredSLT: "slt",
	PredSGT: "sgt",
	PredSLE: "sle",
	PredSGE: "sge",
	PredULT: "ult",
	PredUGT: "ugt",
	PredULE: "ule",
	PredUGE: "uge",
	PredOEQ: "oeq",
	PredONE: "one",
	PredOLT: "olt",
	PredOGT: "ogt",
	PredOLE: "ole",
	PredOGE: "oge",
}

func (p Predicate) String() string { return predNames[p] }

// IsFloat reports whether p is an fcmp predicate.
func (p Predicate) IsFloat() bool { return p >= PredOEQ }

// InlineAsm is the callee of an inline assembly call.
type InlineAsm struct {
	Template    string
	Constraints string
	SideEffect  bool
}

// Instr is a single instruction. Which fields matter depends on Op:
//
//	binary, cmp, cast  Operands, Pred (cmp)
//	alloca             Elem
//	load               Elem, Operands[0] = address
//	store              Operands = [value, address]
//	gep                Elem, Operands = [base, indices...]
//	call               Callee (or Asm), Sig, Operands = args
//	phi                Operands[i] flows in from Blocks[i]
//	select             Operands = [cond, then, else]
//	extractvalue       Operands[0], Index
//	br / condbr        Blocks (condbr: Operands[0] is the i1)
//	ret                optional Operands[0]
type Instr struct {
	Op       Opcode
	Name     string // without the % sigil, empty for void results
	Typ      *Type
	Operands []Value
	Blocks   []*Block

	Pred   Predicate
	Elem   *Type
	Callee Value
	Asm    *InlineAsm
	Sig    *Type
	Index  int

	Parent *Block
}

func (i *Instr) Type() *Type {
	if i.Typ == nil {
		return Void
	}
	return i.Typ
}

func (i *Instr) Ident() string { return "%" + i.Name }

// AddIncoming appends a phi edge.
func (i *Instr) AddIncoming(v Value, from *Block) {
	i.Operands = append(i.Operands, v)
	i.Blocks = append(i.Blocks, from)
}

// Block is a basic block.
type Block struct {
	Name   string
	Instrs []*Instr
	Parent *Function
}

// Terminator returns the final instruction if it is a terminator.
func (b *Block) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if !last.Op.IsTerminator() {
		return nil
	}
	return last
}

func (b *Block) Terminated() bool { return b.Terminator() != nil }

// Succs lists the branch targets of the terminator.
func (b *Block) Succs() []*Block {
	t := b.Terminator()
	if t == nil {
		return nil
	}
	return t.Blocks
}
