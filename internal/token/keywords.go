package token

// ASCII spellings. Several words share a kind (el/else, var/let, ...).
var keywords = map[string]Kind{
	"fn":       KwFn,
	"if":       KwIf,
	"el":       KwElse,
	"else":     KwElse,
	"wh":       KwWhile,
	"while":    KwWhile,
	"as":       KwAs,
	"nw":       KwNew,
	"ct":       KwComptime,
	"fo":       KwFor,
	"for":      KwFor,
	"ma":       KwMatch,
	"match":    KwMatch,
	"en":       KwEnum,
	"enum":     KwEnum,
	"df":       KwDefer,
	"defer":    KwDefer,
	"ext":      KwExtern,
	"extern":   KwExtern,
	"ret":      KwReturn,
	"return":   KwReturn,
	"use":      KwUse,
	"brk":      KwBreak,
	"break":    KwBreak,
	"cont":     KwContinue,
	"continue": KwContinue,
	"del":      KwDelete,
	"delete":   KwDelete,
	"asm":      KwAsm,
	"var":      KwVar,
	"let":      KwVar,
	"null":     KwNull,
	"struct":   KwStruct,
	"sizeof":   KwSizeof,
	"i8":       KwI8,
	"i16":      KwI16,
	"i32":      KwI32,
	"i64":      KwI64,
	"u8":       KwU8,
	"u16":      KwU16,
	"u32":      KwU32,
	"u64":      KwU64,
	"f32":      KwF32,
	"f64":      KwF64,
	"void":     KwVoid,
	"bool":     KwBool,
}

var boolLiterals = map[string]int64{
	"true":  1,
	"false": 0,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые, только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// LookupBoolLiteral reports the integer value of `true`/`false`.
func LookupBoolLiteral(ident string) (int64, bool) {
	v, ok := boolLiterals[ident]
	return v, ok
}
