package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/source"
)

// Preprocess transforms module source text before it is lexed.
type Preprocess func(path string, src []byte) ([]byte, error)

type LoaderOptions struct {
	// Paths are searched in order for `<name>.es`.
	Paths []string
	// Fallback is consulted when no search path has the module, usually
	// the embedded prelude.
	Fallback fs.FS
	// Preprocess may be nil.
	Preprocess Preprocess
	Reporter   diag.Reporter
}

// Loader resolves `use name` for one compilation. Every module is parsed
// at most once; later requests for the same name yield nothing.
type Loader struct {
	files  *source.FileSet
	opts   LoaderOptions
	loaded map[string]bool
}

func NewLoader(files *source.FileSet, opts LoaderOptions) *Loader {
	return &Loader{
		files:  files,
		opts:   opts,
		loaded: make(map[string]bool),
	}
}

// Loaded reports whether name has already been pulled in.
func (l *Loader) Loaded(name string) bool { return l.loaded[name] }

// Load parses module name in prelude mode and returns its declarations.
// at is the `use` site used for the not-found error.
func (l *Loader) Load(name string, at source.Span) ([]*ast.Decl, error) {
	if l.loaded[name] {
		return nil, nil
	}
	l.loaded[name] = true

	path, src, err := l.find(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, diag.Errorf(diag.SynModuleNotFound, at, "module '%s' not found", name).Resolve(l.files)
		}
		return nil, fmt.Errorf("load module %s: %w", name, err)
	}
	if l.opts.Preprocess != nil {
		if src, err = l.opts.Preprocess(path, src); err != nil {
			return nil, fmt.Errorf("preprocess %s: %w", path, err)
		}
	}
	content, flags := source.Normalize(src)
	id := l.files.Add(path, content, flags)

	return parsePrelude(l.files, id, Options{Loader: l, NoStd: true, Reporter: l.opts.Reporter})
}

func (l *Loader) find(name string) (string, []byte, error) {
	file := name + ".es"
	for _, dir := range l.opts.Paths {
		path := filepath.Join(dir, file)
		// #nosec G304 -- module path comes from configuration
		src, err := os.ReadFile(path)
		if err == nil {
			return path, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
	}
	if l.opts.Fallback != nil {
		src, err := fs.ReadFile(l.opts.Fallback, file)
		if err == nil {
			return "<prelude>/" + file, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
	}
	return "", nil, fs.ErrNotExist
}
