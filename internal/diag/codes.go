package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectType       Code = 2002
	SynExpectExpr       Code = 2003
	SynExpectTerminator Code = 2004
	SynPipeTarget       Code = 2005
	SynForMissingRange  Code = 2006
	SynModuleNotFound   Code = 2007
	SynBadForm          Code = 2008

	// Кодогенерация
	GenInfo               Code = 3000
	GenUndefinedIdent     Code = 3001
	GenNotFunction        Code = 3002
	GenUnknownField       Code = 3003
	GenUnknownStruct      Code = 3004
	GenUnsupported        Code = 3005
	GenOutsideLoop        Code = 3006
	GenDuplicateFunction  Code = 3007
	GenNotConstant        Code = 3008
	GenNotAddressable     Code = 3009
	GenMissingMalloc      Code = 3010
	GenBadAsm             Code = 3011
	GenArgumentCount      Code = 3012
	GenDuplicateEnumValue Code = 3013

	VerifyInfo   Code = 4000
	VerifyFailed Code = 4001

	// Внешние инструменты
	LinkInfo          Code = 5000
	LinkToolMissing   Code = 5001
	LinkCompileFailed Code = 5002
	LinkFailed        Code = 5003
	LinkOptFailed     Code = 5004

	IOInfo          Code = 6000
	IOLoadFileError Code = 6001
	IOWriteError    Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Malformed number literal",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectType:         "Expected type",
	SynExpectExpr:         "Expected expression",
	SynExpectTerminator:   "Expected newline or ';'",
	SynPipeTarget:         "Pipe target must be a function or call",
	SynForMissingRange:    "for loop requires a range",
	SynModuleNotFound:     "Module not found",
	SynBadForm:            "Malformed s-expression form",
	GenInfo:               "Code generation information",
	GenUndefinedIdent:     "Undefined identifier",
	GenNotFunction:        "Callee is not a function",
	GenUnknownField:       "Unknown struct field",
	GenUnknownStruct:      "Unknown struct type",
	GenUnsupported:        "Unsupported construct",
	GenOutsideLoop:        "break/continue outside of loop",
	GenDuplicateFunction:  "Duplicate function definition",
	GenNotConstant:        "Expression is not a compile-time constant",
	GenNotAddressable:     "Expression is not addressable",
	GenMissingMalloc:      "malloc is not declared",
	GenBadAsm:             "Malformed inline assembly",
	GenArgumentCount:      "Wrong number of call arguments",
	GenDuplicateEnumValue: "Duplicate enum member",
	VerifyInfo:            "Verifier information",
	VerifyFailed:          "Module verification failed",
	LinkInfo:              "Toolchain information",
	LinkToolMissing:       "Backend tool not found",
	LinkCompileFailed:     "Object emission failed",
	LinkFailed:            "Link failed",
	LinkOptFailed:         "Optimization pipeline failed",
	IOInfo:                "I/O information",
	IOLoadFileError:       "I/O load file error",
	IOWriteError:          "I/O write error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// Phase names the pipeline phase a code belongs to.
func (c Code) Phase() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "lex"
	case ic >= 2000 && ic < 3000:
		return "parse"
	case ic >= 3000 && ic < 4000:
		return "codegen"
	case ic >= 4000 && ic < 5000:
		return "verify"
	case ic >= 5000 && ic < 6000:
		return "link"
	case ic >= 6000 && ic < 7000:
		return "io"
	}
	return "unknown"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
