package main

import (
	"errors"
	"io"

	"esc/internal/diagfmt"
	"esc/internal/source"
)

// fileError carries the FileSet an error's span points into, so the
// snippet can be rendered after the command returns.
type fileError struct {
	err   error
	files *source.FileSet
}

func (e *fileError) Error() string { return e.err.Error() }
func (e *fileError) Unwrap() error { return e.err }

func withFiles(err error, files *source.FileSet) error {
	if err == nil || files == nil {
		return err
	}
	return &fileError{err: err, files: files}
}

func errorOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:      colorEnabled,
		PathMode:   diagfmt.PathModeRelative,
		ShowNotes:  true,
		ShowDetail: true,
	}
}

func reportError(w io.Writer, err error) {
	var files *source.FileSet
	var fe *fileError
	if errors.As(err, &fe) {
		files = fe.files
		err = fe.err
	}
	diagfmt.Error(w, err, files, errorOpts())
}
