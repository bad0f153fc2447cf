package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// buildMax builds `i32 max(i32, i32)` with a phi merge.
func buildMax(m *Module) *Function {
	f := m.AddFunction("max", FuncOf(I32, []*Type{I32, I32}, false))
	b := NewBuilder()
	b.SetFunction(f)
	then := b.NewBlock("then")
	els := b.NewBlock("else")
	end := b.NewBlock("end")

	cond := b.Cmp(PredSGT, f.Params[0], f.Params[1])
	b.CondBr(cond, then, els)
	b.SetBlock(then)
	b.Br(end)
	b.SetBlock(els)
	b.Br(end)
	b.SetBlock(end)
	phi := b.Phi(I32)
	phi.AddIncoming(f.Params[0], then)
	phi.AddIncoming(f.Params[1], els)
	b.Ret(phi)
	return f
}

func TestPrintModule(t *testing.T) {
	m := NewModule("max.es", "x86_64-pc-linux-gnu")
	buildMax(m)
	want := `; ModuleID = 'max.es'
source_filename = "max.es"
target triple = "x86_64-pc-linux-gnu"

define i32 @max(i32 %a0, i32 %a1) {
entry:
  %t0 = icmp sgt i32 %a0, %a1
  br i1 %t0, label %then.0, label %else.1

then.0:
  br label %end.2

else.1:
  br label %end.2

end.2:
  %t1 = phi i32 [ %a0, %then.0 ], [ %a1, %else.1 ]
  ret i32 %t1
}
`
	be.Equal(t, m.String(), want)
	be.Err(t, Verify(m), nil)
}

func TestPrintDeterministic(t *testing.T) {
	build := func() string {
		m := NewModule("a", "")
		buildMax(m)
		m.StringConst("hi")
		return m.String()
	}
	be.Equal(t, build(), build())
}

func TestStringConstDedup(t *testing.T) {
	m := NewModule("s", "")
	a := m.StringConst("%d\n")
	b := m.StringConst("%d\n")
	c := m.StringConst("x")
	be.True(t, a == b)
	be.Equal(t, a.Name, ".str")
	be.Equal(t, c.Name, ".str.1")
	be.Equal(t, len(m.Globals), 2)
	be.True(t, strings.Contains(m.String(),
		`@.str = private unnamed_addr constant [4 x i8] c"%d\0A\00"`))
}

func TestDeclarations(t *testing.T) {
	m := NewModule("d", "")
	m.AddFunction("printf", FuncOf(I32, []*Type{Ptr}, true))
	m.AddFunction("printf", FuncOf(Void, nil, false))
	be.Equal(t, len(m.Funcs), 1)
	be.True(t, strings.Contains(m.String(), "declare i32 @printf(ptr, ...)\n"))
}

func TestAllocaHoisted(t *testing.T) {
	m := NewModule("a", "")
	f := m.AddFunction("f", FuncOf(Void, nil, false))
	b := NewBuilder()
	b.SetFunction(f)
	loop := b.NewBlock("loop")
	b.Br(loop)
	b.SetBlock(loop)
	slot := b.Alloca(I64)
	b.Store(Int(I64, 7), slot)
	b.RetVoid()

	entry := f.Entry()
	be.Equal(t, entry.Instrs[0].Op, OpAlloca)
	be.Equal(t, entry.Instrs[1].Op, OpBr)
	be.Equal(t, loop.Instrs[0].String(), "store i64 7, ptr %t0")
	be.Err(t, Verify(m), nil)
}

func TestEmitAfterTerminatorOpensBlock(t *testing.T) {
	m := NewModule("a", "")
	f := m.AddFunction("f", FuncOf(I32, nil, false))
	b := NewBuilder()
	b.SetFunction(f)
	b.Ret(Int(I32, 1))
	b.Ret(Int(I32, 2))
	be.Equal(t, len(f.Blocks), 2)
	be.Equal(t, f.Blocks[1].Name, "dead.0")
	be.Err(t, Verify(m), nil)
}

func TestConstants(t *testing.T) {
	be.Equal(t, FloatConst(Double, 1.5).Ident(), "0x3FF8000000000000")
	be.Equal(t, FloatConst(Float, 0.1).Ident(), "0x3FB99999A0000000")
	be.Equal(t, Int(I1, 1).Ident(), "true")
	be.Equal(t, Zero(Ptr).Ident(), "null")
	be.Equal(t, Sizeof(I32).Ident(), "ptrtoint (ptr getelementptr (i32, ptr null, i32 1) to i64)")
}

func TestTypes(t *testing.T) {
	m := NewModule("t", "")
	node := m.NamedStruct("Node")
	be.True(t, node.IsOpaque())
	node.SetBody(I32, Ptr)
	be.True(t, m.NamedStruct("Node") == node)
	be.Equal(t, node.String(), "%Node")
	be.Equal(t, ArrayOf(4, I8).String(), "[4 x i8]")
	be.Equal(t, LiteralStruct(I32, I64).String(), "{ i32, i64 }")
	be.Equal(t, FuncOf(I32, []*Type{Ptr}, true).String(), "i32 (ptr, ...)")
	be.True(t, Same(LiteralStruct(I32), LiteralStruct(I32)))
	be.True(t, !Same(I32, I64))
	be.True(t, strings.Contains(m.String(), "%Node = type { i32, ptr }"))
}

func TestQuoteName(t *testing.T) {
	be.Equal(t, quoteName("enum.Color.Red"), "enum.Color.Red")
	be.Equal(t, quoteName("9lives"), `"9lives"`)
	be.Equal(t, quoteName("a b"), `"a b"`)
}

func TestInlineAsmCall(t *testing.T) {
	m := NewModule("a", "")
	f := m.AddFunction("f", FuncOf(I32, []*Type{I32}, false))
	b := NewBuilder()
	b.SetFunction(f)
	asm := &InlineAsm{Template: "mov $1, $0", Constraints: "=r,r", SideEffect: true}
	out := b.CallAsm(FuncOf(I32, []*Type{I32}, false), asm, f.Params[0])
	b.Ret(out)
	be.Equal(t, out.String(), `%t0 = call i32 asm sideeffect "mov $1, $0", "=r,r"(i32 %a0)`)
	be.Err(t, Verify(m), nil)
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Module, b *Builder, f *Function)
		msg   string
	}{
		{"missing terminator", func(m *Module, b *Builder, f *Function) {
			b.Alloca(I32)
		}, "block entry: missing terminator"},
		{"ret type", func(m *Module, b *Builder, f *Function) {
			b.Ret(Int(I64, 0))
		}, "ret i64 in function returning i32"},
		{"ret void", func(m *Module, b *Builder, f *Function) {
			b.RetVoid()
		}, "ret void in function returning i32"},
		{"binary operands", func(m *Module, b *Builder, f *Function) {
			b.Ret(b.Binary(OpAdd, Int(I32, 1), Int(I64, 2)))
		}, "add operands differ: i32 and i64"},
		{"float op on ints", func(m *Module, b *Builder, f *Function) {
			b.Ret(b.Binary(OpFAdd, Int(I32, 1), Int(I32, 2)))
		}, "fadd on i32"},
		{"condition", func(m *Module, b *Builder, f *Function) {
			next := b.NewBlock("next")
			b.CondBr(Int(I32, 1), next, next)
			b.SetBlock(next)
			b.Ret(Int(I32, 0))
		}, "branch condition is i32, not i1"},
		{"call arity", func(m *Module, b *Builder, f *Function) {
			g := m.AddFunction("g", FuncOf(I32, []*Type{I32}, false))
			b.Ret(b.Call(g.Sig, g))
		}, "call passes 0 arguments"},
		{"phi edges", func(m *Module, b *Builder, f *Function) {
			next := b.NewBlock("next")
			b.Br(next)
			b.SetBlock(next)
			phi := b.Phi(I32)
			phi.AddIncoming(Int(I32, 1), next)
			b.Ret(phi)
		}, "phi edge from next.0, which is not a predecessor"},
		{"entry predecessor", func(m *Module, b *Builder, f *Function) {
			b.Br(f.Entry())
		}, "entry block has predecessors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModule("v", "")
			f := m.AddFunction("f", FuncOf(I32, nil, false))
			b := NewBuilder()
			b.SetFunction(f)
			tt.build(m, b, f)
			err := Verify(m)
			be.Err(t, err, tt.msg)
			var ve *VerifyError
			be.True(t, errors.As(err, &ve))
			be.Equal(t, ve.Func, "f")
		})
	}
}
