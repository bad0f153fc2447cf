package codegen

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/source"
	"esc/internal/types"
)

type structDef struct {
	name   string
	names  []string
	fields []*types.Type
	ir     *ir.Type
}

func (sd *structDef) index(field string) int {
	for i, n := range sd.names {
		if n == field {
			return i
		}
	}
	return -1
}

// declareStruct registers the name only; bodies come in a second pass so
// fields may name structs declared later. Re-declaration is a no-op.
func (c *Context) declareStruct(st *ast.StructDecl) {
	if _, dup := c.structs[st.Name]; dup {
		return
	}
	c.structs[st.Name] = &structDef{name: st.Name, ir: c.mod.NamedStruct(st.Name)}
}

func (c *Context) defineStruct(st *ast.StructDecl) {
	sd := c.structs[st.Name]
	if sd.fields != nil || !sd.ir.IsOpaque() {
		return
	}
	sd.names = make([]string, len(st.Fields))
	sd.fields = make([]*types.Type, len(st.Fields))
	body := make([]*ir.Type, len(st.Fields))
	for i, f := range st.Fields {
		sd.names[i] = f.Name
		sd.fields[i] = c.resolve(f.Type)
		body[i] = c.irType(f.Span, sd.fields[i])
	}
	sd.ir.SetBody(body...)
}

// structOf resolves S or *S to its definition.
func (c *Context) structOf(t *types.Type) *structDef {
	name := t.StructName()
	if name == "" {
		return nil
	}
	return c.structs[name]
}

func (c *Context) structFields(name string) ([]*types.Type, bool) {
	sd, ok := c.structs[name]
	if !ok {
		return nil, false
	}
	return sd.fields, true
}

// resolve rewrites enum names, which the parser sees as struct names,
// to i32.
func (c *Context) resolve(t *types.Type) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KindStruct:
		if c.enums[t.Name] {
			if _, isStruct := c.structs[t.Name]; !isStruct {
				return types.I32
			}
		}
	case types.KindPointer:
		if e := c.resolve(t.Elem); e != t.Elem {
			return types.Pointer(e)
		}
	case types.KindArray:
		if e := c.resolve(t.Elem); e != t.Elem {
			return types.Array(t.Count, e)
		}
	case types.KindFunc:
		params := make([]*types.Type, len(t.Params))
		changed := false
		for i, p := range t.Params {
			params[i] = c.resolve(p)
			changed = changed || params[i] != p
		}
		ret := c.resolve(t.Ret)
		if changed || ret != t.Ret {
			return types.Func(ret, params, t.Variadic)
		}
	}
	return t
}

// irType maps a language type to its backend type.
func (c *Context) irType(span source.Span, t *types.Type) *ir.Type {
	switch {
	case t.IsVoid():
		return ir.Void
	case t.IsInteger():
		return ir.IntType(int(t.Width))
	case t.IsFloat():
		if t.Width == types.Width32 {
			return ir.Float
		}
		return ir.Double
	case t.IsPointer(), t.IsFunc():
		return ir.Ptr
	case t.IsArray():
		return ir.ArrayOf(t.Count, c.irType(span, t.Elem))
	case t.IsStruct():
		if c.enums[t.Name] {
			if _, ok := c.structs[t.Name]; !ok {
				return ir.I32
			}
		}
		sd, ok := c.structs[t.Name]
		if !ok {
			fail(span, diag.GenUnknownStruct, "undefined struct '%s'", t.Name)
		}
		return sd.ir
	}
	fail(span, diag.GenUnsupported, "unsupported type %s", t)
	return nil
}

// elemType is what a pointer addresses; *void steps by bytes.
func elemType(ptr *types.Type) *types.Type {
	if ptr.Elem.IsVoid() {
		return types.U8
	}
	return ptr.Elem
}

// sigOf builds the backend signature of a function type.
func (c *Context) sigOf(span source.Span, ft *types.Type) *ir.Type {
	params := make([]*ir.Type, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = c.irType(span, p)
	}
	return ir.FuncOf(c.irType(span, ft.Ret), params, ft.Variadic)
}

var castOps = map[types.Op]ir.Opcode{
	types.OpZExt:     ir.OpZExt,
	types.OpTrunc:    ir.OpTrunc,
	types.OpSIToFP:   ir.OpSIToFP,
	types.OpUIToFP:   ir.OpUIToFP,
	types.OpFPToSI:   ir.OpFPToSI,
	types.OpFPToUI:   ir.OpFPToUI,
	types.OpFPExt:    ir.OpFPExt,
	types.OpFPTrunc:  ir.OpFPTrunc,
	types.OpIntToPtr: ir.OpIntToPtr,
	types.OpPtrToInt: ir.OpPtrToInt,
}

// coerce converts v of type from to type to using the coercion table.
func (c *Context) coerce(span source.Span, v ir.Value, from, to *types.Type) ir.Value {
	op, ok := castOps[types.Coercion(from, to)]
	if !ok {
		return v
	}
	return c.b.Cast(op, v, c.irType(span, to))
}
