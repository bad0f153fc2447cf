// Package testkit runs compiler test cases written as Markdown documents.
//
// A case starts at a heading "Test: <name>" and holds one input fence and
// any number of assertion fences:
//
//	```es            input in the ASCII/pictograph syntax
//	```el            input in the s-expression syntax
//	```ir            every non-blank line must appear in the IR
//	```ir-absent     no non-blank line may appear in the IR
//	```error         the compile error must contain this text
//	```wasm          (empty) compile for the WASM target
//	```stdout        expected output of the linked program
//
// Code blocks without a language are prose and ignored.
package testkit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of the input fence.
type InputType string

const (
	InputES InputType = "es"
	InputEL InputType = "el"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	AssertIR       AssertionType = "ir"
	AssertIRAbsent AssertionType = "ir-absent"
	AssertError    AssertionType = "error"
	AssertWASM     AssertionType = "wasm"
	AssertStdout   AssertionType = "stdout"
)

type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// Case is one test extracted from Markdown.
type Case struct {
	Name       string
	Input      string
	InputType  InputType
	Line       int
	Assertions []Assertion
}

// Filename is the virtual path the input is compiled under; the extension
// selects the front-end.
func (c *Case) Filename() string {
	return "case." + string(c.InputType)
}

// WASM reports whether the case targets WebAssembly.
func (c *Case) WASM() bool {
	for _, a := range c.Assertions {
		if a.Type == AssertWASM {
			return true
		}
	}
	return false
}

// ExtractCases parses a Markdown document and returns its test cases in
// document order.
func ExtractCases(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var cur *Case
	finish := func() error {
		if cur == nil {
			return nil
		}
		if err := validateCase(cur); err != nil {
			return err
		}
		cases = append(cases, *cur)
		cur = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(heading, "Test: "), Line: lineOf(n, markdown)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(markdown))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lineOf(n, markdown)
			if cur == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
			}
			content := blockContent(n, markdown)
			switch {
			case lang == string(InputES) || lang == string(InputEL):
				if cur.InputType != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test '%s'", line, cur.Name)
				}
				cur.Input = content
				cur.InputType = InputType(lang)
			case isAssertion(lang):
				cur.Assertions = append(cur.Assertions, Assertion{
					Type:    AssertionType(lang),
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, lang, cur.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func isAssertion(lang string) bool {
	switch AssertionType(lang) {
	case AssertIR, AssertIRAbsent, AssertError, AssertWASM, AssertStdout:
		return true
	}
	return false
}

func validateCase(c *Case) error {
	if c.InputType == "" {
		return fmt.Errorf("line %d: test '%s' has no input fence", c.Line, c.Name)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("line %d: test '%s' has no assertions", c.Line, c.Name)
	}
	var hasError, hasOutput bool
	for _, a := range c.Assertions {
		switch a.Type {
		case AssertError:
			hasError = true
		case AssertIR, AssertIRAbsent, AssertStdout:
			hasOutput = true
		}
	}
	if hasError && hasOutput {
		return fmt.Errorf("line %d: test '%s' expects both an error and output", c.Line, c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the node's first content line, or of
// the fence itself for empty blocks.
func lineOf(node ast.Node, source []byte) int {
	offset := -1
	if lines := node.Lines(); lines != nil && lines.Len() > 0 {
		offset = lines.At(0).Start
	}
	if offset < 0 {
		if fcb, ok := node.(*ast.FencedCodeBlock); ok && fcb.Info != nil {
			offset = fcb.Info.Segment.Start
		}
	}
	if offset < 0 {
		return 0
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
