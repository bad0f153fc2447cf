package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. Token.Text carries the reason.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a run of line breaks (and blank lines) collapsed into one.
	Newline
	// Semicolon terminates a statement like Newline.
	Semicolon // ;

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal (decimal, hex, true/false).
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents a string literal; Token.Str holds the decoded bytes.
	StringLit

	KwFn       // fn 🔧
	KwReturn   // ret return ↩
	KwIf       // if ❓
	KwElse     // el else ❗
	KwWhile    // wh while 🔁
	KwFor      // for fo ➰
	KwBreak    // brk break 🛑
	KwContinue // cont continue ⏩
	KwStruct   // struct 📦
	KwExtern   // ext extern 🔌
	KwUse      // use 📥
	KwEnum     // en 🏷
	KwAs       // as 🔄
	KwSizeof   // sizeof 📏
	KwNull     // null ∅
	KwNew      // nw ✨
	KwDelete   // del delete 🗑
	KwAsm      // asm 🔩
	KwComptime // ct ⚡
	KwMatch    // ma match 🎯
	KwDefer    // df defer 🔜
	KwVar      // var let

	KwI8   // i8 💧
	KwI16  // i16 📊
	KwI32  // i32 🔢
	KwI64  // i64 🔷
	KwU8   // u8 🔶
	KwU16  // u16 📈
	KwU32  // u32 🔵
	KwU64  // u64 💎
	KwF32  // f32 🌊
	KwF64  // f64 🌀
	KwVoid // void ⬛
	KwBool // bool

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	Bang          // !
	EqEq          // ==
	BangEq        // !=
	Lt            // <
	Gt            // >
	LtEq          // <=
	GtEq          // >=
	AndAnd        // &&
	OrOr          // ||
	Shl           // <<
	Shr           // >>
	Question      // ?
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	ColonAssign   // :=
	Colon         // :
	Arrow         // ->
	PipeGt        // |>
	Dot           // .
	DotDot        // ..
	DotDotEq      // ..=
	DotDotDot     // ...
	Comma         // ,
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:   "<err>",
	EOF:       "<eof>",
	Newline:   "<nl>",
	Semicolon: ";",
	Ident:     "<id>",
	IntLit:    "<int>",
	FloatLit:  "<float>",
	StringLit: "<str>",

	KwFn:       "fn",
	KwReturn:   "ret",
	KwIf:       "if",
	KwElse:     "el",
	KwWhile:    "wh",
	KwFor:      "for",
	KwBreak:    "brk",
	KwContinue: "cont",
	KwStruct:   "struct",
	KwExtern:   "ext",
	KwUse:      "use",
	KwEnum:     "enum",
	KwAs:       "as",
	KwSizeof:   "sizeof",
	KwNull:     "null",
	KwNew:      "nw",
	KwDelete:   "del",
	KwAsm:      "asm",
	KwComptime: "ct",
	KwMatch:    "match",
	KwDefer:    "defer",
	KwVar:      "var",

	KwI8:   "i8",
	KwI16:  "i16",
	KwI32:  "i32",
	KwI64:  "i64",
	KwU8:   "u8",
	KwU16:  "u16",
	KwU32:  "u32",
	KwU64:  "u64",
	KwF32:  "f32",
	KwF64:  "f64",
	KwVoid: "void",
	KwBool: "bool",

	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	Bang:          "!",
	EqEq:          "==",
	BangEq:        "!=",
	Lt:            "<",
	Gt:            ">",
	LtEq:          "<=",
	GtEq:          ">=",
	AndAnd:        "&&",
	OrOr:          "||",
	Shl:           "<<",
	Shr:           ">>",
	Question:      "?",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	ColonAssign:   ":=",
	Colon:         ":",
	Arrow:         "->",
	PipeGt:        "|>",
	Dot:           ".",
	DotDot:        "..",
	DotDotEq:      "..=",
	DotDotDot:     "...",
	Comma:         ",",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "<err>"
}

// IsTypeKeyword reports whether k names a primitive type.
func (k Kind) IsTypeKeyword() bool {
	return k >= KwI8 && k <= KwBool
}

// IsKeyword reports whether k is a statement/declaration keyword or a type keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwFn && k <= KwBool
}

// IsTerminator reports whether k ends a statement.
func (k Kind) IsTerminator() bool {
	return k == Newline || k == Semicolon
}

// CompoundOp maps a compound assignment to its binary operator.
func (k Kind) CompoundOp() (Kind, bool) {
	switch k {
	case PlusAssign:
		return Plus, true
	case MinusAssign:
		return Minus, true
	case StarAssign:
		return Star, true
	case SlashAssign:
		return Slash, true
	case PercentAssign:
		return Percent, true
	default:
		return Invalid, false
	}
}
