package ir

import (
	"fmt"
	"slices"
)

// VerifyError describes the first structural problem found.
type VerifyError struct {
	Func  string
	Block string
	Msg   string
}

func (e *VerifyError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("function @%s: %s", e.Func, e.Msg)
	}
	return fmt.Sprintf("function @%s, block %s: %s", e.Func, e.Block, e.Msg)
}

// Verify checks the invariants the backend relies on: every block ends in
// exactly one terminator, phis match their predecessors, and operand
// types agree.
func Verify(m *Module) error {
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		if err := verifyFunc(f); err != nil {
			return err
		}
	}
	return nil
}

type verifier struct {
	f     *Function
	blk   *Block
	preds map[*Block][]*Block
}

func (v *verifier) errorf(format string, args ...any) *VerifyError {
	e := &VerifyError{Func: v.f.Name, Msg: fmt.Sprintf(format, args...)}
	if v.blk != nil {
		e.Block = v.blk.Name
	}
	return e
}

func verifyFunc(f *Function) error {
	v := &verifier{f: f, preds: make(map[*Block][]*Block)}
	owned := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		owned[b] = true
	}
	for _, b := range f.Blocks {
		v.blk = b
		if b.Terminator() == nil {
			return v.errorf("missing terminator")
		}
		for _, s := range b.Succs() {
			if !owned[s] {
				return v.errorf("branch to block %s outside the function", s.Name)
			}
			if !slices.Contains(v.preds[s], b) {
				v.preds[s] = append(v.preds[s], b)
			}
		}
	}
	if len(v.preds[f.Entry()]) > 0 {
		v.blk = f.Entry()
		return v.errorf("entry block has predecessors")
	}
	for _, b := range f.Blocks {
		v.blk = b
		if err := v.block(b); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) block(b *Block) error {
	phis := true
	for k, in := range b.Instrs {
		if in.Op.IsTerminator() && k != len(b.Instrs)-1 {
			return v.errorf("terminator '%s' in the middle of the block", in.Op)
		}
		if in.Op == OpPhi {
			if !phis {
				return v.errorf("phi after non-phi instruction")
			}
		} else {
			phis = false
		}
		if err := v.instr(in); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) instr(in *Instr) error {
	switch {
	case in.Op.IsBinary():
		x, y := in.Operands[0].Type(), in.Operands[1].Type()
		if !Same(x, y) {
			return v.errorf("%s operands differ: %s and %s", in.Op, x, y)
		}
		isFloatOp := in.Op >= OpFAdd
		if isFloatOp && !x.IsFloat() || !isFloatOp && !x.IsInt() {
			return v.errorf("%s on %s", in.Op, x)
		}
	case in.Op == OpICmp || in.Op == OpFCmp:
		x, y := in.Operands[0].Type(), in.Operands[1].Type()
		if !Same(x, y) {
			return v.errorf("%s operands differ: %s and %s", in.Op, x, y)
		}
		if in.Op == OpFCmp && !x.IsFloat() {
			return v.errorf("fcmp on %s", x)
		}
	case in.Op.IsCast():
		if in.Operands[0].Type().IsVoid() {
			return v.errorf("%s of void value", in.Op)
		}
	}

	switch in.Op {
	case OpLoad, OpStore:
		addr := in.Operands[len(in.Operands)-1]
		if !addr.Type().IsPtr() {
			return v.errorf("%s through non-pointer %s", in.Op, addr.Type())
		}
		if in.Op == OpStore && in.Operands[0].Type().IsVoid() {
			return v.errorf("store of void value")
		}
	case OpCondBr:
		if !Same(in.Operands[0].Type(), I1) {
			return v.errorf("branch condition is %s, not i1", in.Operands[0].Type())
		}
	case OpRet:
		want := v.f.Sig.Ret
		if len(in.Operands) == 0 {
			if !want.IsVoid() {
				return v.errorf("ret void in function returning %s", want)
			}
		} else if got := in.Operands[0].Type(); !Same(got, want) {
			return v.errorf("ret %s in function returning %s", got, want)
		}
	case OpSelect:
		if !Same(in.Operands[0].Type(), I1) {
			return v.errorf("select condition is %s, not i1", in.Operands[0].Type())
		}
		if x, y := in.Operands[1].Type(), in.Operands[2].Type(); !Same(x, y) {
			return v.errorf("select operands differ: %s and %s", x, y)
		}
	case OpCall:
		return v.call(in)
	case OpPhi:
		return v.phi(in)
	}
	return nil
}

func (v *verifier) call(in *Instr) error {
	sig := in.Sig
	n := len(in.Operands)
	if n < len(sig.Params) || n > len(sig.Params) && !sig.Variadic {
		return v.errorf("call passes %d arguments, signature %s", n, sig)
	}
	for k, p := range sig.Params {
		if got := in.Operands[k].Type(); !Same(got, p) {
			return v.errorf("argument %d is %s, want %s", k, got, p)
		}
	}
	return nil
}

func (v *verifier) phi(in *Instr) error {
	preds := v.preds[in.Parent]
	if len(in.Blocks) != len(preds) {
		return v.errorf("phi has %d incoming edges, block has %d predecessors", len(in.Blocks), len(preds))
	}
	for k, from := range in.Blocks {
		if !slices.Contains(preds, from) {
			return v.errorf("phi edge from %s, which is not a predecessor", from.Name)
		}
		if got := in.Operands[k].Type(); !Same(got, in.Typ) {
			return v.errorf("phi value is %s, want %s", got, in.Typ)
		}
	}
	return nil
}
