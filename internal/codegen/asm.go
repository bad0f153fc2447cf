package codegen

import (
	"strings"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/source"
	"esc/internal/types"
)

// genAsm emits an inline assembly call with side effects. Output operands
// are written back to their places after the call; the expression value is
// the first output, or void when there are none.
func (c *Context) genAsm(span source.Span, a *ast.InlineAsm) (ir.Value, *types.Type) {
	for _, o := range a.Outputs {
		if !strings.HasPrefix(o.Constraint, "=") {
			fail(o.Value.Span, diag.GenBadAsm, "output constraint %q must start with '='", o.Constraint)
		}
	}
	for _, in := range a.Inputs {
		if strings.HasPrefix(in.Constraint, "=") {
			fail(in.Value.Span, diag.GenBadAsm, "input constraint %q cannot start with '='", in.Constraint)
		}
	}

	addrs := make([]ir.Value, len(a.Outputs))
	outTypes := make([]*types.Type, len(a.Outputs))
	outIR := make([]*ir.Type, len(a.Outputs))
	for i, o := range a.Outputs {
		addrs[i], outTypes[i] = c.lvalue(o.Value)
		outIR[i] = c.irType(o.Value.Span, outTypes[i])
	}

	args := make([]ir.Value, len(a.Inputs))
	params := make([]*ir.Type, len(a.Inputs))
	for i, in := range a.Inputs {
		args[i] = c.genExpr(in.Value)
		params[i] = args[i].Type()
	}

	ret := ir.Void
	switch len(outIR) {
	case 0:
	case 1:
		ret = outIR[0]
	default:
		ret = ir.LiteralStruct(outIR...)
	}
	call := c.b.CallAsm(ir.FuncOf(ret, params, false), &ir.InlineAsm{
		Template:    a.Template,
		Constraints: a.Constraints(),
		SideEffect:  true,
	}, args...)

	switch len(addrs) {
	case 0:
		return call, types.Void
	case 1:
		c.b.Store(call, addrs[0])
		return call, outTypes[0]
	}
	var first ir.Value
	for i, addr := range addrs {
		v := c.b.ExtractValue(call, i)
		if i == 0 {
			first = v
		}
		c.b.Store(v, addr)
	}
	return first, outTypes[0]
}
