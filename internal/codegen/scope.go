package codegen

import (
	"esc/internal/ir"
	"esc/internal/types"
)

// symbol binds a name to storage. For locals and parameters value is the
// stack slot; for functions it is the *ir.Function and sig is set.
type symbol struct {
	name     string
	value    ir.Value
	typ      *types.Type
	sig      *ir.Type
	constant bool
}

func (s *symbol) isFunc() bool { return s.sig != nil }

func (c *Context) push(s symbol) {
	c.syms = append(c.syms, s)
}

// lookup returns the innermost binding of name.
func (c *Context) lookup(name string) *symbol {
	for i := len(c.syms) - 1; i >= 0; i-- {
		if c.syms[i].name == name {
			return &c.syms[i]
		}
	}
	return nil
}

// scope returns a mark to pass to closeScope.
func (c *Context) scope() int { return len(c.syms) }

func (c *Context) closeScope(mark int) {
	clear(c.syms[mark:])
	c.syms = c.syms[:mark]
}
