package ir

import (
	"fmt"
	"strings"
)

// String renders the module as LLVM assembly.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n", m.Name)
	fmt.Fprintf(&sb, "source_filename = \"%s\"\n", escapeBytes([]byte(m.Name)))
	if m.Triple != "" {
		fmt.Fprintf(&sb, "target triple = \"%s\"\n", m.Triple)
	}

	if len(m.Structs) > 0 {
		sb.WriteString("\n")
		for _, t := range m.Structs {
			if t.opaque {
				fmt.Fprintf(&sb, "%s = type opaque\n", t)
				continue
			}
			fmt.Fprintf(&sb, "%s = type %s\n", t, t.body())
		}
	}

	if len(m.Globals) > 0 {
		sb.WriteString("\n")
		for _, g := range m.Globals {
			writeGlobal(&sb, g)
		}
	}

	for _, f := range m.Funcs {
		sb.WriteString("\n")
		writeFunction(&sb, f)
	}
	return sb.String()
}

func writeGlobal(sb *strings.Builder, g *Global) {
	fmt.Fprintf(sb, "%s = %s", g.Ident(), g.Linkage.prefix())
	if g.Unnamed {
		sb.WriteString("unnamed_addr ")
	}
	kind := "global"
	if g.Constant {
		kind = "constant"
	}
	fmt.Fprintf(sb, "%s %s %s\n", kind, g.ValueType(), g.Init.Ident())
}

func writeFunction(sb *strings.Builder, f *Function) {
	params := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		if f.IsDecl() {
			params = append(params, p.Typ.String())
		} else {
			params = append(params, p.Typ.String()+" "+p.Ident())
		}
	}
	if f.Sig.Variadic {
		params = append(params, "...")
	}
	sig := fmt.Sprintf("%s %s(%s)", f.Sig.Ret, f.Ident(), strings.Join(params, ", "))

	if f.IsDecl() {
		fmt.Fprintf(sb, "declare %s\n", sig)
		return
	}
	fmt.Fprintf(sb, "define %s%s {\n", f.Linkage.prefix(), sig)
	for i, blk := range f.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "%s:\n", quoteName(blk.Name))
		for _, in := range blk.Instrs {
			sb.WriteString("  ")
			sb.WriteString(in.String())
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")
}

func typed(v Value) string { return v.Type().String() + " " + v.Ident() }

func label(b *Block) string { return "label %" + quoteName(b.Name) }

// String renders one instruction without indentation.
func (i *Instr) String() string {
	var sb strings.Builder
	if i.Name != "" {
		fmt.Fprintf(&sb, "%%%s = ", i.Name)
	}
	switch {
	case i.Op.IsBinary():
		fmt.Fprintf(&sb, "%s %s, %s", i.Op, typed(i.Operands[0]), i.Operands[1].Ident())
	case i.Op == OpICmp || i.Op == OpFCmp:
		fmt.Fprintf(&sb, "%s %s %s, %s", i.Op, i.Pred, typed(i.Operands[0]), i.Operands[1].Ident())
	case i.Op.IsCast():
		fmt.Fprintf(&sb, "%s %s to %s", i.Op, typed(i.Operands[0]), i.Typ)
	}
	switch i.Op {
	case OpAlloca:
		fmt.Fprintf(&sb, "alloca %s", i.Elem)
	case OpLoad:
		fmt.Fprintf(&sb, "load %s, %s", i.Elem, typed(i.Operands[0]))
	case OpStore:
		fmt.Fprintf(&sb, "store %s, %s", typed(i.Operands[0]), typed(i.Operands[1]))
	case OpGEP:
		fmt.Fprintf(&sb, "getelementptr %s", i.Elem)
		for _, op := range i.Operands {
			sb.WriteString(", ")
			sb.WriteString(typed(op))
		}
	case OpCall:
		writeCall(&sb, i)
	case OpPhi:
		fmt.Fprintf(&sb, "phi %s ", i.Typ)
		for k, v := range i.Operands {
			if k > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "[ %s, %%%s ]", v.Ident(), quoteName(i.Blocks[k].Name))
		}
	case OpSelect:
		fmt.Fprintf(&sb, "select %s, %s, %s", typed(i.Operands[0]), typed(i.Operands[1]), typed(i.Operands[2]))
	case OpExtractValue:
		fmt.Fprintf(&sb, "extractvalue %s, %d", typed(i.Operands[0]), i.Index)
	case OpBr:
		fmt.Fprintf(&sb, "br %s", label(i.Blocks[0]))
	case OpCondBr:
		fmt.Fprintf(&sb, "br %s, %s, %s", typed(i.Operands[0]), label(i.Blocks[0]), label(i.Blocks[1]))
	case OpRet:
		if len(i.Operands) == 0 {
			sb.WriteString("ret void")
		} else {
			fmt.Fprintf(&sb, "ret %s", typed(i.Operands[0]))
		}
	case OpUnreachable:
		sb.WriteString("unreachable")
	}
	return sb.String()
}

func writeCall(sb *strings.Builder, i *Instr) {
	sb.WriteString("call ")
	// variadic callees need the full function type
	if i.Sig.Variadic {
		sb.WriteString(i.Sig.String())
	} else {
		sb.WriteString(i.Sig.Ret.String())
	}
	sb.WriteString(" ")
	if i.Asm != nil {
		sb.WriteString("asm ")
		if i.Asm.SideEffect {
			sb.WriteString("sideeffect ")
		}
		fmt.Fprintf(sb, "\"%s\", \"%s\"", escapeBytes([]byte(i.Asm.Template)), escapeBytes([]byte(i.Asm.Constraints)))
	} else {
		sb.WriteString(i.Callee.Ident())
	}
	sb.WriteString("(")
	for k, a := range i.Operands {
		if k > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(typed(a))
	}
	sb.WriteString(")")
}
