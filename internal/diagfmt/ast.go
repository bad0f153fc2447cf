package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"esc/internal/ast"
	"esc/internal/source"
	"esc/internal/types"
)

// ASTNodeOutput is the serializable shape of one AST node, shared by the
// pretty, JSON and msgpack dumps.
type ASTNodeOutput struct {
	Node     string          `json:"node" msgpack:"node"`
	Text     string          `json:"text,omitempty" msgpack:"text,omitempty"`
	Type     string          `json:"type,omitempty" msgpack:"type,omitempty"`
	Span     string          `json:"span" msgpack:"span"`
	Children []ASTNodeOutput `json:"children,omitempty" msgpack:"children,omitempty"`
}

type astBuilder struct {
	fs *source.FileSet
}

// BuildAST converts prog into the dump tree. Declarations pulled in by
// `use` are part of the program and appear in order.
func BuildAST(prog *ast.Program, fs *source.FileSet) ASTNodeOutput {
	b := astBuilder{fs: fs}
	root := ASTNodeOutput{Node: "Program", Text: strconv.Itoa(len(prog.Decls)) + " decls"}
	for _, d := range prog.Decls {
		root.Children = append(root.Children, b.decl(d))
	}
	return root
}

func (b astBuilder) span(s source.Span) string {
	if b.fs != nil && b.fs.Get(s.File) != nil {
		start, end := b.fs.Resolve(s)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", s.Start, s.End)
}

func fieldNodes(kind string, fields []ast.Field, b astBuilder) []ASTNodeOutput {
	out := make([]ASTNodeOutput, 0, len(fields))
	for _, f := range fields {
		out = append(out, ASTNodeOutput{Node: kind, Text: f.Name, Type: f.Type.String(), Span: b.span(f.Span)})
	}
	return out
}

func (b astBuilder) decl(d *ast.Decl) ASTNodeOutput {
	n := ASTNodeOutput{Node: d.Kind.String(), Text: d.Name(), Span: b.span(d.Span)}
	switch data := d.Data.(type) {
	case *ast.FnDecl:
		n.Type = d.Signature().String()
		if data.Implicit {
			n.Text += " (implicit)"
		}
		n.Children = append(fieldNodes("Param", data.Params, b), b.stmt(data.Body))
	case *ast.ExternDecl:
		n.Type = d.Signature().String()
		n.Children = fieldNodes("Param", data.Params, b)
	case *ast.StructDecl:
		n.Children = fieldNodes("Field", data.Fields, b)
	case *ast.EnumDecl:
		for _, m := range data.Members {
			n.Children = append(n.Children, ASTNodeOutput{
				Node: "Member",
				Text: m.Name + " = " + strconv.FormatInt(m.Value, 10),
				Span: b.span(m.Span),
			})
		}
	}
	return n
}

func (b astBuilder) stmt(s *ast.Stmt) ASTNodeOutput {
	if s == nil {
		return ASTNodeOutput{Node: "<nil>"}
	}
	n := ASTNodeOutput{Node: s.Kind.String(), Span: b.span(s.Span)}
	add := func(children ...ASTNodeOutput) { n.Children = append(n.Children, children...) }
	switch data := s.Data.(type) {
	case *ast.BlockStmt:
		for _, child := range data.Stmts {
			add(b.stmt(child))
		}
	case *ast.ReturnStmt:
		if data.Value != nil {
			add(b.expr(data.Value))
		}
	case *ast.ExprStmt:
		add(b.expr(data.Expr))
	case *ast.VarDeclStmt:
		n.Text = data.Name
		if data.Type != nil {
			n.Type = data.Type.String()
		}
		if data.Init != nil {
			add(b.expr(data.Init))
		}
	case *ast.AssignStmt:
		add(b.expr(data.Target), b.expr(data.Value))
	case *ast.IfStmt:
		add(b.expr(data.Cond), b.stmt(data.Then))
		if data.Else != nil {
			add(b.stmt(data.Else))
		}
	case *ast.WhileStmt:
		add(b.expr(data.Cond), b.stmt(data.Body))
	case *ast.ForStmt:
		add(b.stmt(data.Init), b.expr(data.Cond), b.stmt(data.Incr), b.stmt(data.Body))
	case *ast.MatchStmt:
		add(b.expr(data.Value))
		for _, c := range data.Cases {
			arm := ASTNodeOutput{Node: "Case", Span: b.span(c.Span)}
			if c.IsDefault() {
				arm.Text = "_"
			} else {
				arm.Children = append(arm.Children, b.expr(c.Value))
			}
			arm.Children = append(arm.Children, b.stmt(c.Body))
			add(arm)
		}
	case *ast.DeferStmt:
		add(b.stmt(data.Body))
	case *ast.AsmStmt:
		n.Text = strconv.Quote(data.Asm.Template)
		add(b.asmOperands(data.Asm)...)
	case *ast.ComptimeStmt:
		add(b.expr(data.Expr))
	}
	return n
}

func (b astBuilder) asmOperands(a *ast.InlineAsm) []ASTNodeOutput {
	var out []ASTNodeOutput
	for _, o := range a.Outputs {
		out = append(out, ASTNodeOutput{Node: "Out", Text: o.Constraint, Children: []ASTNodeOutput{b.expr(o.Value)}})
	}
	for _, in := range a.Inputs {
		out = append(out, ASTNodeOutput{Node: "In", Text: in.Constraint, Children: []ASTNodeOutput{b.expr(in.Value)}})
	}
	if len(a.Clobbers) > 0 {
		out = append(out, ASTNodeOutput{Node: "Clobbers", Text: strings.Join(a.Clobbers, ",")})
	}
	return out
}

func (b astBuilder) expr(e *ast.Expr) ASTNodeOutput {
	if e == nil {
		return ASTNodeOutput{Node: "<nil>"}
	}
	n := ASTNodeOutput{Node: e.Kind.String(), Span: b.span(e.Span)}
	if e.Type != nil {
		n.Type = e.Type.String()
	}
	add := func(children ...ASTNodeOutput) { n.Children = append(n.Children, children...) }
	switch data := e.Data.(type) {
	case *ast.IntLit:
		n.Text = strconv.FormatInt(data.Value, 10)
	case *ast.FloatLit:
		n.Text = strconv.FormatFloat(data.Value, 'g', -1, 64)
	case *ast.StringLit:
		n.Text = strconv.Quote(data.Value)
	case *ast.NullLit:
		n.Text = "null"
	case *ast.Ident:
		n.Text = data.Name
	case *ast.CallExpr:
		add(b.expr(data.Callee))
		for _, a := range data.Args {
			add(b.expr(a))
		}
	case *ast.BinaryExpr:
		n.Text = data.Op.String()
		add(b.expr(data.Left), b.expr(data.Right))
	case *ast.UnaryExpr:
		n.Text = data.Op.String()
		add(b.expr(data.Operand))
	case *ast.FieldExpr:
		n.Text = data.Field
		add(b.expr(data.Object))
	case *ast.IndexExpr:
		add(b.expr(data.Object), b.expr(data.Index))
	case *ast.CastExpr:
		n.Text = "as " + data.Target.String()
		add(b.expr(data.Value))
	case *ast.TernaryExpr:
		add(b.expr(data.Cond), b.expr(data.Then), b.expr(data.Else))
	case *ast.SizeofExpr:
		n.Text = data.Target.String()
	case *ast.StructInitExpr:
		n.Text = typeName(data.Struct)
		for _, f := range data.Fields {
			add(ASTNodeOutput{Node: "FieldInit", Text: f.Name, Span: b.span(f.Span), Children: []ASTNodeOutput{b.expr(f.Value)}})
		}
	case *ast.AsmExpr:
		n.Text = strconv.Quote(data.Asm.Template)
		add(b.asmOperands(data.Asm)...)
	case *ast.ComptimeExpr:
		add(b.expr(data.Value))
	}
	return n
}

func typeName(t *types.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// FormatASTPretty prints the tree with box-drawing guides, one node per
// line: `Node text : type (span)`.
func FormatASTPretty(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	root := BuildAST(prog, fs)
	if _, err := fmt.Fprintln(w, nodeLabel(root)); err != nil {
		return err
	}
	for i, child := range root.Children {
		writeTree(w, child, "", i == len(root.Children)-1)
	}
	return nil
}

func nodeLabel(n ASTNodeOutput) string {
	var sb strings.Builder
	sb.WriteString(n.Node)
	if n.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Text)
	}
	if n.Type != "" {
		sb.WriteString(" : ")
		sb.WriteString(n.Type)
	}
	if n.Span != "" {
		sb.WriteString(" (")
		sb.WriteString(n.Span)
		sb.WriteString(")")
	}
	return sb.String()
}

func writeTree(w io.Writer, n ASTNodeOutput, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(n))
	for i, child := range n.Children {
		writeTree(w, child, prefix+next, i == len(n.Children)-1)
	}
}

func FormatASTJSON(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	return encodeJSON(w, BuildAST(prog, fs))
}

func FormatASTMsgpack(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	return msgpack.NewEncoder(w).Encode(BuildAST(prog, fs))
}
