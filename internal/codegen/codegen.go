package codegen

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/source"
	"esc/internal/types"
)

// Options select the target of one compilation.
type Options struct {
	Target Target
	// Triple overrides the target triple; empty means the target default.
	Triple string
	// ModuleName is printed as the module id, usually the input path.
	ModuleName string
}

// Context owns every piece of state of a single compilation: the symbol
// and struct tables, the defer stack, loop targets and the module being
// built. It is not safe for concurrent use; build one per input.
type Context struct {
	fs   *source.FileSet
	opts Options

	mod *ir.Module
	b   *ir.Builder

	syms    []symbol
	structs map[string]*structDef
	enums   map[string]bool

	fn      *ir.Function
	fnName  string
	retType *types.Type
	loop    *loopTargets
	defers  []deferred
}

// deferred is a registered defer together with the bindings visible at
// the point of registration; replay resolves names against those.
type deferred struct {
	body *ast.Stmt
	syms []symbol
}

type loopTargets struct {
	cont *ir.Block
	brk  *ir.Block
}

// New prepares a context for one program.
func New(fs *source.FileSet, opts Options) *Context {
	if opts.ModuleName == "" {
		opts.ModuleName = "main"
	}
	return &Context{
		fs:      fs,
		opts:    opts,
		mod:     ir.NewModule(opts.ModuleName, opts.Target.Triple(opts.Triple)),
		b:       ir.NewBuilder(),
		structs: make(map[string]*structDef),
		enums:   make(map[string]bool),
	}
}

// Generate lowers prog with a fresh Context and verifies the result.
func Generate(fs *source.FileSet, prog *ast.Program, opts Options) (*ir.Module, error) {
	return New(fs, opts).Generate(prog)
}

// Generate walks the declaration list once: struct layouts, enum
// constants, prototypes, then function bodies in source order. The module
// is verified before it is returned; a verification failure carries the
// IR dump as its detail.
func (c *Context) Generate(prog *ast.Program) (mod *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			mod, err = nil, b.err.Resolve(c.fs)
		}
	}()

	for _, d := range prog.Decls {
		if st := d.Struct(); st != nil {
			c.declareStruct(st)
		}
	}
	for _, d := range prog.Decls {
		if en := d.Enum(); en != nil {
			c.enums[en.Name] = true
		}
	}
	for _, d := range prog.Decls {
		if st := d.Struct(); st != nil {
			c.defineStruct(st)
		}
	}
	for _, d := range prog.Decls {
		if en := d.Enum(); en != nil {
			c.genEnum(d, en)
		}
	}
	for _, d := range prog.Decls {
		switch data := d.Data.(type) {
		case *ast.ExternDecl:
			c.declareExtern(d, data)
		case *ast.FnDecl:
			c.declareFn(d, data)
		}
	}
	for _, d := range prog.Decls {
		if fn := d.Fn(); fn != nil {
			c.genFn(fn)
		}
	}

	if verr := ir.Verify(c.mod); verr != nil {
		return nil, diag.NewError(diag.VerifyFailed, "module verification failed: "+verr.Error(), c.mod.String())
	}
	return c.mod, nil
}

// Module exposes the module under construction.
func (c *Context) Module() *ir.Module { return c.mod }
