package sexpr

import (
	"strconv"
	"strings"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/source"
	"esc/internal/types"
)

type bailout struct{ err *diag.Error }

func fail(n *Node, format string, args ...any) {
	panic(bailout{diag.Errorf(diag.SynBadForm, n.Span, format, args...)})
}

var primitives = map[string]*types.Type{
	"i8":  types.I8,
	"i16": types.I16,
	"i32": types.I32,
	"i64": types.I64,
	"u8":  types.U8,
	"u16": types.U16,
	"u32": types.U32,
	"u64": types.U64,
	"f32": types.F32,
	"f64": types.F64,
	"v":   types.Void,
}

var binaryOps = map[string]ast.BinaryOp{
	"+":  ast.OpAdd,
	"-":  ast.OpSub,
	"*":  ast.OpMul,
	"/":  ast.OpDiv,
	"%":  ast.OpRem,
	"<":  ast.OpLt,
	">":  ast.OpGt,
	"<=": ast.OpLe,
	">=": ast.OpGe,
	"==": ast.OpEq,
	"!=": ast.OpNe,
	"&&": ast.OpAnd,
	"||": ast.OpOr,
	"&":  ast.OpBitAnd,
	"|":  ast.OpBitOr,
	"^":  ast.OpBitXor,
	"<<": ast.OpShl,
	">>": ast.OpShr,
}

var unaryOps = map[string]ast.UnaryOp{
	"&": ast.OpAddr,
	"*": ast.OpDeref,
	"-": ast.OpNeg,
	"!": ast.OpNot,
	"~": ast.OpBitNot,
}

var compoundOps = map[string]ast.BinaryOp{
	"+=": ast.OpAdd,
	"-=": ast.OpSub,
	"*=": ast.OpMul,
	"/=": ast.OpDiv,
	"%=": ast.OpRem,
}

func symbol(n *Node, what string) string {
	if n.List || n.Kind != AtomSymbol {
		fail(n, "expected %s", what)
	}
	return n.Text
}

// lowerType: i8..f64, v, *T, or a struct name.
func lowerType(n *Node) *types.Type {
	s := symbol(n, "type")
	return typeFromText(n, s)
}

func typeFromText(n *Node, s string) *types.Type {
	if t, ok := primitives[s]; ok {
		return t
	}
	if elem, ok := strings.CutPrefix(s, "*"); ok {
		if elem == "" {
			fail(n, "expected type")
		}
		return types.Pointer(typeFromText(n, elem))
	}
	return types.Struct(s)
}

// looksLikeType is the return-type test in `(fn name (params) T body...)`:
// struct names are not accepted there.
func looksLikeType(n *Node) bool {
	if n.List || n.Kind != AtomSymbol {
		return false
	}
	_, prim := primitives[n.Text]
	return prim || strings.HasPrefix(n.Text, "*")
}

func lowerExpr(n *Node) *ast.Expr {
	if !n.List {
		switch n.Kind {
		case AtomInt:
			return ast.NewInt(n.Span, n.Int)
		case AtomFloat:
			return ast.NewFloat(n.Span, n.Float)
		case AtomString:
			return ast.NewString(n.Span, n.Str)
		}
		if n.Text == "null" {
			return ast.NewNull(n.Span)
		}
		return ast.NewIdent(n.Span, n.Text)
	}
	if len(n.Items) == 0 {
		fail(n, "empty list")
	}
	head := n.Head()
	if head == "" {
		fail(n, "unexpected nested list")
	}
	args := n.Items[1:]

	if op, ok := binaryOps[head]; ok && len(args) == 2 {
		return ast.NewBinary(n.Span, op, lowerExpr(args[0]), lowerExpr(args[1]))
	}
	if op, ok := unaryOps[head]; ok && len(args) == 1 {
		return ast.NewUnary(n.Span, op, lowerExpr(args[0]))
	}
	switch {
	case head == "?" && len(args) == 3:
		return ast.NewTernary(n.Span, lowerExpr(args[0]), lowerExpr(args[1]), lowerExpr(args[2]))
	case head == "." && len(args) == 2:
		return ast.NewField(n.Span, lowerExpr(args[0]), symbol(args[1], "field name"))
	case head == "[]" && len(args) == 2:
		return ast.NewIndex(n.Span, lowerExpr(args[0]), lowerExpr(args[1]))
	case head == "as" && len(args) == 2:
		return ast.NewCast(n.Span, lowerExpr(args[0]), lowerType(args[1]))
	case head == "sz" && len(args) == 1:
		return ast.NewSizeof(n.Span, lowerType(args[0]))
	case head == "nw" && len(args) == 1:
		// (nw T)  =>  malloc(sizeof T) as *T
		t := lowerType(args[0])
		call := ast.NewCall(n.Span, ast.NewIdent(n.Items[0].Span, "malloc"), ast.NewSizeof(n.Span, t))
		return ast.NewCast(n.Span, call, types.Pointer(t))
	}

	call := make([]*ast.Expr, len(args))
	for i, a := range args {
		call[i] = lowerExpr(a)
	}
	return ast.NewCall(n.Span, ast.NewIdent(n.Items[0].Span, head), call...)
}

func lowerStmt(n *Node) *ast.Stmt {
	if !n.List || n.Head() == "" {
		return ast.NewExprStmt(lowerExpr(n))
	}
	head := n.Head()
	args := n.Items[1:]

	if op, ok := compoundOps[head]; ok {
		if len(args) != 2 {
			fail(n, "'%s' takes a target and a value", head)
		}
		target := lowerExpr(args[0])
		value := ast.NewBinary(n.Span, op, target, lowerExpr(args[1]))
		return ast.NewAssign(n.Span, target, value)
	}
	switch {
	case head == "=" && len(args) == 2:
		return ast.NewVarDecl(n.Span, symbol(args[0], "variable name"), nil, lowerExpr(args[1]))
	case head == ":" && (len(args) == 2 || len(args) == 3):
		var init *ast.Expr
		if len(args) == 3 {
			init = lowerExpr(args[2])
		}
		return ast.NewVarDecl(n.Span, symbol(args[0], "variable name"), lowerType(args[1]), init)
	case head == "!" && len(args) == 2:
		return ast.NewAssign(n.Span, lowerExpr(args[0]), lowerExpr(args[1]))
	case head == "^":
		var value *ast.Expr
		if len(args) > 0 {
			value = lowerExpr(args[0])
		}
		return ast.NewReturn(n.Span, value)
	case head == "brk":
		return &ast.Stmt{Kind: ast.StmtBreak, Span: n.Span}
	case head == "cont":
		return &ast.Stmt{Kind: ast.StmtContinue, Span: n.Span}
	case head == "if" && len(args) >= 2:
		return lowerIf(n)
	case head == "@" && len(args) >= 2:
		return &ast.Stmt{Kind: ast.StmtWhile, Span: n.Span, Data: &ast.WhileStmt{
			Cond: lowerExpr(args[0]),
			Body: lowerBlock(n.Span, args[1:]),
		}}
	case head == "del" && len(args) == 1:
		return ast.NewExprStmt(ast.NewCall(n.Span, ast.NewIdent(n.Items[0].Span, "free"), lowerExpr(args[0])))
	}
	return ast.NewExprStmt(lowerExpr(n))
}

// lowerIf: (if cond then... [(el else...)]).
func lowerIf(n *Node) *ast.Stmt {
	args := n.Items[1:]
	cond := lowerExpr(args[0])
	then := args[1:]
	var els *ast.Stmt
	if last := then[len(then)-1]; last.Head() == "el" {
		then = then[:len(then)-1]
		els = lowerBlock(last.Span, last.Items[1:])
	}
	return &ast.Stmt{Kind: ast.StmtIf, Span: n.Span, Data: &ast.IfStmt{
		Cond: cond,
		Then: lowerBlock(n.Span, then),
		Else: els,
	}}
}

func lowerBlock(span source.Span, forms []*Node) *ast.Stmt {
	stmts := make([]*ast.Stmt, len(forms))
	for i, f := range forms {
		stmts[i] = lowerStmt(f)
	}
	return ast.NewBlock(span, stmts...)
}

// lowerDecl handles (fn ...), (st ...) and (ext ...).
func lowerDecl(n *Node) *ast.Decl {
	if !n.List || len(n.Items) < 2 {
		fail(n, "expected declaration")
	}
	switch head := n.Head(); head {
	case "fn":
		return lowerFn(n)
	case "st":
		return lowerStruct(n)
	case "ext":
		return lowerExtern(n)
	default:
		fail(n, "unknown declaration '%s'", head)
		return nil
	}
}

// lowerFn: (fn name ((p T)...) [T] body...).
func lowerFn(n *Node) *ast.Decl {
	if len(n.Items) < 3 {
		fail(n, "fn needs a name and a parameter list")
	}
	name := symbol(n.Items[1], "function name")
	isMain := name == "main"

	plist := n.Items[2]
	if !plist.List {
		fail(plist, "expected parameter list")
	}
	params := make([]ast.Field, len(plist.Items))
	for i, pp := range plist.Items {
		if pp.List && len(pp.Items) == 2 {
			params[i] = ast.Field{Name: symbol(pp.Items[0], "parameter name"), Type: lowerType(pp.Items[1]), Span: pp.Span}
		} else {
			params[i] = ast.Field{Name: "_p" + strconv.Itoa(i), Type: lowerType(pp), Span: pp.Span}
		}
	}

	ret := types.Void
	if isMain {
		ret = types.I32
	}
	bodyStart := 3
	if len(n.Items) > 3 && looksLikeType(n.Items[3]) {
		ret = lowerType(n.Items[3])
		bodyStart = 4
	}

	body := lowerBlock(n.Span, n.Items[bodyStart:])
	if !ret.IsVoid() && !isMain {
		blk := body.Block()
		if k := len(blk.Stmts); k > 0 {
			if es, ok := blk.Stmts[k-1].Data.(*ast.ExprStmt); ok {
				blk.Stmts[k-1] = ast.NewReturn(blk.Stmts[k-1].Span, es.Expr)
			}
		}
	}

	return &ast.Decl{Kind: ast.DeclFn, Span: n.Span, Data: &ast.FnDecl{
		Name:   name,
		Params: params,
		Ret:    ret,
		Body:   body,
	}}
}

// lowerStruct: (st Name (field T)...).
func lowerStruct(n *Node) *ast.Decl {
	name := symbol(n.Items[1], "struct name")
	fields := make([]ast.Field, 0, len(n.Items)-2)
	for _, f := range n.Items[2:] {
		if !f.List || len(f.Items) != 2 {
			fail(f, "expected (field type)")
		}
		fields = append(fields, ast.Field{Name: symbol(f.Items[0], "field name"), Type: lowerType(f.Items[1]), Span: f.Span})
	}
	return &ast.Decl{Kind: ast.DeclStruct, Span: n.Span, Data: &ast.StructDecl{Name: name, Fields: fields}}
}

// lowerExtern: (ext name (T... [...]) [T]).
func lowerExtern(n *Node) *ast.Decl {
	if len(n.Items) < 3 || !n.Items[2].List {
		fail(n, "expected (ext name (types...) [ret])")
	}
	name := symbol(n.Items[1], "function name")
	tlist := n.Items[2].Items
	variadic := false
	if k := len(tlist); k > 0 && tlist[k-1].IsSym("...") {
		variadic = true
		tlist = tlist[:k-1]
	}
	params := make([]ast.Field, len(tlist))
	for i, t := range tlist {
		params[i] = ast.Field{Name: "_p" + strconv.Itoa(i), Type: lowerType(t), Span: t.Span}
	}
	ret := types.Void
	if len(n.Items) > 3 {
		ret = lowerType(n.Items[3])
	}
	return &ast.Decl{Kind: ast.DeclExtern, Span: n.Span, Data: &ast.ExternDecl{
		Name:     name,
		Params:   params,
		Ret:      ret,
		Variadic: variadic,
	}}
}
