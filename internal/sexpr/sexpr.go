// Package sexpr is the second front-end: it reads `.el` files written as
// s-expressions and lowers them to the same ast.Program the pictograph
// parser produces.
//
//	(ext printf (*u8 ...) i32)
//	(st Vec2 (x f64) (y f64))
//	(fn add ((a i32) (b i32)) i32 (+ a b))
//	(fn main () (printf "%d\n" (add 1 2)) (^ 0))
package sexpr

import (
	"errors"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/parser"
	"esc/internal/source"
)

type Options struct {
	NoStd  bool
	Loader *parser.Loader
}

// Parse reads and lowers file id. The std prelude is loaded through the
// pictograph parser unless disabled; `(use name)` pulls in other modules
// the same way.
func Parse(fs *source.FileSet, id source.FileID, opts Options) (prog *ast.Program, err error) {
	file := fs.Get(id)
	if file == nil {
		return nil, errors.New("sexpr: unknown file")
	}
	forms, err := Read(file)
	if err != nil {
		return nil, resolve(err, fs)
	}

	out := &ast.Program{}
	if !opts.NoStd && opts.Loader != nil {
		decls, err := opts.Loader.Load("std", source.Span{File: id})
		if err != nil {
			return nil, err
		}
		out.Append(decls...)
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err.Resolve(fs)
		}
	}()
	for _, f := range forms {
		if f.Head() == "use" {
			decls, err := loadUse(f, opts)
			if err != nil {
				return nil, err
			}
			out.Append(decls...)
			continue
		}
		out.Append(lowerDecl(f))
	}
	return out, nil
}

func loadUse(f *Node, opts Options) ([]*ast.Decl, error) {
	if len(f.Items) != 2 {
		fail(f, "expected (use name)")
	}
	name := symbol(f.Items[1], "module name")
	if opts.Loader == nil {
		return nil, diag.Errorf(diag.SynModuleNotFound, f.Span, "module '%s' not found", name)
	}
	return opts.Loader.Load(name, f.Span)
}

func resolve(err error, fs *source.FileSet) error {
	var de *diag.Error
	if errors.As(err, &de) {
		de.Resolve(fs)
	}
	return err
}
