package token

// VariationSelector16 may follow any pictograph and is dropped by the lexer.
const VariationSelector16 = '\uFE0F'

var glyphKeywords = map[rune]Kind{
	// control flow
	'❓':          KwIf,
	'❗':          KwElse,
	'\U0001F501': KwWhile,    // 🔁
	'↩':          KwReturn,   // ↩
	'\U0001F6D1': KwBreak,    // 🛑
	'⏩':          KwContinue, // ⏩

	// declarations
	'\U0001F527': KwFn,     // 🔧
	'\U0001F4E6': KwStruct, // 📦
	'\U0001F50C': KwExtern, // 🔌
	'\U0001F4E5': KwUse,    // 📥

	// memory
	'✨':          KwNew,
	'\U0001F5D1': KwDelete, // 🗑

	'\U0001F529': KwAsm,      // 🔩
	'⚡':          KwComptime, // ⚡
	'➰':          KwFor,      // ➰
	'\U0001F3AF': KwMatch,    // 🎯
	'\U0001F3F7': KwEnum,     // 🏷
	'\U0001F51C': KwDefer,    // 🔜

	'\U0001F504': KwAs,     // 🔄
	'\U0001F4CF': KwSizeof, // 📏
	'∅':          KwNull,

	// types
	'\U0001F4A7': KwI8,  // 💧
	'\U0001F4CA': KwI16, // 📊
	'\U0001F522': KwI32, // 🔢
	'\U0001F537': KwI64, // 🔷
	'\U0001F536': KwU8,  // 🔶
	'\U0001F4C8': KwU16, // 📈
	'\U0001F535': KwU32, // 🔵
	'\U0001F48E': KwU64, // 💎
	'\U0001F30A': KwF32, // 🌊
	'\U0001F300': KwF64, // 🌀
	'⬛':          KwVoid,
}

var glyphAliases = map[rune]string{
	// I/O
	'\U0001F5A8': "printf",  // 🖨
	'\U0001F4E3': "fprintf", // 📣
	'\U0001F4DD': "sprintf", // 📝
	'\U0001F4E2': "puts",    // 📢
	'\U0001F514': "putchar", // 🔔
	'\U0001F442': "getchar", // 👂

	// files
	'\U0001F4C2': "open",  // 📂
	'\U0001F4D5': "close", // 📕
	'\U0001F4D6': "read",  // 📖
	'✏':          "write",
	'\U0001F516': "lseek", // 🔖

	// memory
	'\U0001F9E0': "malloc", // 🧠
	'\U0001F9E9': "calloc", // 🧩
	'♻':          "realloc",
	'\U0001F193': "free",   // 🆓
	'\U0001F9F9': "memset", // 🧹
	'\U0001F4CB': "memcpy", // 📋
	'\U0001F500': "memmove", // 🔀
	'⚖':          "memcmp",

	// strings
	'\U0001F9F5': "strlen", // 🧵
	'⚔':          "strcmp",
	'\U0001F5E1': "strncmp", // 🗡
	'✂':          "strcpy",
	'\U0001FAA1': "strncpy", // 🪡
	'\U0001F517': "strcat",  // 🔗
	'\U0001F50D': "strchr",  // 🔍
	'\U0001F50E': "strstr",  // 🔎
	'\U0001F170': "atoi",    // 🅰
	'\U0001F171': "atol",    // 🅱

	// network
	'\U0001F310': "socket",     // 🌐
	'\U0001F4CC': "bind",       // 📌
	'\U0001F4E1': "listen",     // 📡
	'\U0001F91D': "accept",     // 🤝
	'\U0001F9F2': "connect",    // 🧲
	'\U0001F4E4': "send",       // 📤
	'\U0001F4E9': "recv",       // 📩
	'\U0001F39B': "setsockopt", // 🎛
	'\U0001F503': "htons",      // 🔃
	'\U0001F502': "htonl",      // 🔂
	'\U0001F519': "ntohs",      // 🔙
	'\U0001F51A': "ntohl",      // 🔚
	'\U0001F3E0': "inet_addr",  // 🏠

	// math
	'\U0001F4D0': "sqrt", // 📐
	'\U0001F3B5': "sin",  // 🎵
	'\U0001F3B6': "cos",  // 🎶
	'\U0001F4AA': "pow",  // 💪
	'\U0001F9CA': "fabs", // 🧊
	'⬇':          "floor",
	'⬆':          "ceil",
	'\U0001F4D3': "log", // 📓

	// process
	'\U0001F480': "exit",   // 💀
	'\U0001F374': "fork",   // 🍴
	'\U0001F3C3': "execvp", // 🏃
	'⌛':          "waitpid",
	'\U0001F194': "getpid", // 🆔
	'\U0001F634': "sleep",  // 😴
	'⏰':          "usleep",

	'\U0001F5FA': "mmap",   // 🗺
	'\U0001F6AB': "munmap", // 🚫

	'\U0001F3C1': "main", // 🏁
}

// LookupGlyph maps a pictograph to its keyword kind.
func LookupGlyph(r rune) (Kind, bool) {
	k, ok := glyphKeywords[r]
	return k, ok
}

// LookupGlyphAlias maps a pictograph to the C function name it stands for.
func LookupGlyphAlias(r rune) (string, bool) {
	name, ok := glyphAliases[r]
	return name, ok
}

// GlyphKeywords returns a copy of the pictograph keyword table.
func GlyphKeywords() map[rune]Kind {
	out := make(map[rune]Kind, len(glyphKeywords))
	for r, k := range glyphKeywords {
		out[r] = k
	}
	return out
}

// GlyphAliases returns a copy of the pictograph alias table.
func GlyphAliases() map[rune]string {
	out := make(map[rune]string, len(glyphAliases))
	for r, name := range glyphAliases {
		out[r] = name
	}
	return out
}
