package ir

// Builder appends instructions to the current block of a function.
type Builder struct {
	fn  *Function
	cur *Block
}

func NewBuilder() *Builder { return &Builder{} }

// SetFunction starts emitting into f, creating its entry block.
func (b *Builder) SetFunction(f *Function) *Block {
	b.fn = f
	b.cur = f.Entry()
	if b.cur == nil {
		b.cur = f.NewBlock("entry")
	}
	return b.cur
}

func (b *Builder) Function() *Function { return b.fn }
func (b *Builder) Block() *Block       { return b.cur }

// NewBlock creates a block in the current function without moving to it.
func (b *Builder) NewBlock(name string) *Block { return b.fn.NewBlock(name) }

// SetBlock moves the insertion point to the end of blk.
func (b *Builder) SetBlock(blk *Block) { b.cur = blk }

// Terminated reports whether the current block already ends in a
// terminator.
func (b *Builder) Terminated() bool { return b.cur != nil && b.cur.Terminated() }

func (b *Builder) emit(in *Instr) *Instr {
	if b.cur.Terminated() {
		// код после ret/br недостижим, но должен оставаться валидным
		b.cur = b.fn.NewBlock("dead")
	}
	if !in.Type().IsVoid() {
		in.Name = b.fn.nextTemp()
	}
	in.Parent = b.cur
	b.cur.Instrs = append(b.cur.Instrs, in)
	return in
}

// Alloca reserves a stack slot. Slots are hoisted to the top of the entry
// block so loops do not grow the stack.
func (b *Builder) Alloca(t *Type) *Instr {
	entry := b.fn.Entry()
	in := &Instr{Op: OpAlloca, Typ: Ptr, Elem: t, Name: b.fn.nextTemp(), Parent: entry}
	pos := 0
	for pos < len(entry.Instrs) && entry.Instrs[pos].Op == OpAlloca {
		pos++
	}
	entry.Instrs = append(entry.Instrs, nil)
	copy(entry.Instrs[pos+1:], entry.Instrs[pos:])
	entry.Instrs[pos] = in
	return in
}

func (b *Builder) Load(t *Type, addr Value) *Instr {
	return b.emit(&Instr{Op: OpLoad, Typ: t, Elem: t, Operands: []Value{addr}})
}

func (b *Builder) Store(v, addr Value) *Instr {
	return b.emit(&Instr{Op: OpStore, Operands: []Value{v, addr}})
}

// Binary emits an arithmetic or bitwise op; the result has x's type.
func (b *Builder) Binary(op Opcode, x, y Value) *Instr {
	return b.emit(&Instr{Op: op, Typ: x.Type(), Operands: []Value{x, y}})
}

// Cmp emits icmp or fcmp depending on the predicate.
func (b *Builder) Cmp(p Predicate, x, y Value) *Instr {
	op := OpICmp
	if p.IsFloat() {
		op = OpFCmp
	}
	return b.emit(&Instr{Op: op, Typ: I1, Pred: p, Operands: []Value{x, y}})
}

func (b *Builder) Cast(op Opcode, v Value, to *Type) *Instr {
	return b.emit(&Instr{Op: op, Typ: to, Operands: []Value{v}})
}

// GEP indexes from base, which points at an elem.
func (b *Builder) GEP(elem *Type, base Value, indices ...Value) *Instr {
	ops := append([]Value{base}, indices...)
	return b.emit(&Instr{Op: OpGEP, Typ: Ptr, Elem: elem, Operands: ops})
}

// StructGEP addresses field idx of the struct st at base.
func (b *Builder) StructGEP(st *Type, base Value, idx int) *Instr {
	return b.GEP(st, base, Int(I32, 0), Int(I32, int64(idx)))
}

// Call calls callee with signature sig.
func (b *Builder) Call(sig *Type, callee Value, args ...Value) *Instr {
	return b.emit(&Instr{Op: OpCall, Typ: sig.Ret, Sig: sig, Callee: callee, Operands: args})
}

// CallAsm emits an inline assembly call.
func (b *Builder) CallAsm(sig *Type, asm *InlineAsm, args ...Value) *Instr {
	return b.emit(&Instr{Op: OpCall, Typ: sig.Ret, Sig: sig, Asm: asm, Operands: args})
}

// Phi emits an empty phi; add edges with AddIncoming.
func (b *Builder) Phi(t *Type) *Instr {
	return b.emit(&Instr{Op: OpPhi, Typ: t})
}

// Select picks x when cond (i1) is true, y otherwise.
func (b *Builder) Select(cond, x, y Value) *Instr {
	return b.emit(&Instr{Op: OpSelect, Typ: x.Type(), Operands: []Value{cond, x, y}})
}

func (b *Builder) ExtractValue(agg Value, idx int) *Instr {
	return b.emit(&Instr{Op: OpExtractValue, Typ: agg.Type().Fields[idx], Index: idx, Operands: []Value{agg}})
}

func (b *Builder) Br(to *Block) *Instr {
	return b.emit(&Instr{Op: OpBr, Blocks: []*Block{to}})
}

func (b *Builder) CondBr(cond Value, then, els *Block) *Instr {
	return b.emit(&Instr{Op: OpCondBr, Operands: []Value{cond}, Blocks: []*Block{then, els}})
}

func (b *Builder) Ret(v Value) *Instr {
	return b.emit(&Instr{Op: OpRet, Operands: []Value{v}})
}

func (b *Builder) RetVoid() *Instr {
	return b.emit(&Instr{Op: OpRet})
}

func (b *Builder) Unreachable() *Instr {
	return b.emit(&Instr{Op: OpUnreachable})
}
