// Package parser provides an error-tolerant parser for C# source code.
//
// # Overview
//
// The parser produces a concrete syntax tree (see package syntax) in which
// every token of the input is a leaf carrying its leading and trailing
// trivia. Printing the leaves in order reproduces the input exactly:
//
//	root, _ := parser.ParseCompilationUnit(strings.NewReader(src)).Finish()
//	root.ToFullString() == src // always true
//
// # Trivia
//
// A token's trailing trivia extends up to and including the first line break
// after it. All other whitespace, comments and preprocessor directives
// before a token are its leading trivia. The final trivia of a file is held
// by the EOF leaf, which is the last child of the compilation unit.
//
// # Coverage
//
// Declarations are parsed structurally: namespaces, type declarations,
// fields, properties, methods, constructors, parameters and types. Statement
// bodies are parsed into statements; expressions are kept as flat token
// sequences, except that a top-level simple assignment becomes an
// AssignmentExpr with the left and right sides as children.
//
// # Errors
//
// Malformed input never fails the parse. The parser records an error, wraps
// skipped tokens in a KindError node and resumes at the next plausible
// member or statement boundary. Errors returns the list of problems found.
package parser
