// Package namespace holds the persistent execution state shared by code
// blocks during a weave.
//
// A [Store] maps names to [Namespace] values. Every store starts with the
// namespace [Default]; other namespaces are created on first reference.
// Stores are ordinary values owned by whoever runs a weave, so separate runs
// never see each other's bindings.
//
// # Execution
//
// [Namespace.Exec] runs source text in one of three modes:
//
//   - [ModeExpression] evaluates a single expr-lang expression and prints its
//     value (nil prints nothing).
//   - [ModeBlock] executes a sequence of statements and returns only what the
//     statements printed.
//   - [ModeAuto] picks one of the two by looking at the source. One statement
//     that is not an assignment is an expression, anything else is a block.
//
// Block statements are separated by newlines or semicolons. A statement
// continues onto following lines while a bracket is open.
//
//	# comment lines start with # or //
//	total = 0
//	total += 40; total += 2
//	names = [
//	    "ada",
//	    "grace",
//	]
//	println(total, len(names))
//	del names
//
// Expressions are [expr-lang] programs evaluated against the namespace's
// bindings layered over the builtins: print, println, printf, env, cwd,
// path.{abs,cat,rel}, file.{exists,isDir} and mung.prefix.
//
// [Namespace.ExecGo] runs Go source in an interpreter owned by the namespace,
// so declarations made by one block are visible to the next.
//
// [expr-lang]: https://expr-lang.org
package namespace
