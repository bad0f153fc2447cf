// Package ir is a small in-memory model of LLVM IR: named struct types,
// globals, functions made of basic blocks, and a Builder that appends
// instructions in SSA form. Modules print as textual LLVM assembly that
// clang and opt accept directly, and Verify checks the structural rules
// (terminators, phi/predecessor agreement, operand types) before anything
// is handed to an external tool.
package ir
