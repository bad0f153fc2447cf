package ir

import (
	"fmt"
	"strconv"
)

// Function is a defined or declared function. As a value it is its own
// address.
type Function struct {
	Name    string
	Sig     *Type
	Params  []*Param
	Blocks  []*Block
	Linkage Linkage

	module *Module
	temps  int
	labels int
}

func (*Function) Type() *Type     { return Ptr }
func (f *Function) Ident() string { return "@" + quoteName(f.Name) }

// IsDecl reports whether f has no body (an extern).
func (f *Function) IsDecl() bool { return len(f.Blocks) == 0 }

func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// NewBlock appends a block. The first block is always "entry"; later
// ones get a numeric suffix so names stay unique.
func (f *Function) NewBlock(name string) *Block {
	if len(f.Blocks) > 0 || name != "entry" {
		name = name + "." + strconv.Itoa(f.labels)
		f.labels++
	}
	b := &Block{Name: name, Parent: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) nextTemp() string {
	n := "t" + strconv.Itoa(f.temps)
	f.temps++
	return n
}

// Module owns types, globals and functions in insertion order, so
// printing is deterministic.
type Module struct {
	Name   string
	Triple string

	Structs []*Type
	Globals []*Global
	Funcs   []*Function

	structs map[string]*Type
	globals map[string]*Global
	funcs   map[string]*Function
	strs    map[string]*Global
}

func NewModule(name, triple string) *Module {
	return &Module{
		Name:    name,
		Triple:  triple,
		structs: make(map[string]*Type),
		globals: make(map[string]*Global),
		funcs:   make(map[string]*Function),
		strs:    make(map[string]*Global),
	}
}

// NamedStruct returns the identified struct type name, creating it opaque
// on first use.
func (m *Module) NamedStruct(name string) *Type {
	if t, ok := m.structs[name]; ok {
		return t
	}
	t := &Type{Kind: TStruct, Name: name, opaque: true}
	m.structs[name] = t
	m.Structs = append(m.Structs, t)
	return t
}

// LookupStruct finds a named struct without creating it.
func (m *Module) LookupStruct(name string) (*Type, bool) {
	t, ok := m.structs[name]
	return t, ok
}

// AddGlobal registers g. Names must be unique.
func (m *Module) AddGlobal(g *Global) (*Global, error) {
	if _, dup := m.globals[g.Name]; dup {
		return nil, fmt.Errorf("global @%s already defined", g.Name)
	}
	m.globals[g.Name] = g
	m.Globals = append(m.Globals, g)
	return g, nil
}

func (m *Module) Global(name string) *Global { return m.globals[name] }

// StringConst returns the private NUL-terminated constant for s. Equal
// strings share one global.
func (m *Module) StringConst(s string) *Global {
	if g, ok := m.strs[s]; ok {
		return g
	}
	data := make([]byte, len(s)+1)
	copy(data, s)
	name := ".str"
	if n := len(m.strs); n > 0 {
		name += "." + strconv.Itoa(n)
	}
	g := &Global{Name: name, Init: &ConstBytes{Data: data}, Constant: true, Unnamed: true, Linkage: Private}
	m.strs[s] = g
	m.globals[name] = g
	m.Globals = append(m.Globals, g)
	return g
}

// AddFunction declares name with signature sig. A second call with the
// same name returns the existing function.
func (m *Module) AddFunction(name string, sig *Type) *Function {
	if f, ok := m.funcs[name]; ok {
		return f
	}
	f := &Function{Name: name, Sig: sig, module: m}
	f.Params = make([]*Param, len(sig.Params))
	for i, p := range sig.Params {
		f.Params[i] = &Param{Name: "a" + strconv.Itoa(i), Typ: p}
	}
	m.funcs[name] = f
	m.Funcs = append(m.Funcs, f)
	return f
}

func (m *Module) Function(name string) *Function { return m.funcs[name] }
