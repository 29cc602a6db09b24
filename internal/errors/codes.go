// Package errors provides the structured, accumulating error type used
// by every compiler pass.
package errors

// Code identifies an error condition. Codes are stable and observable;
// tests and embedders match on them.
type Code string

const (
	// Parse is a syntax error surfaced from the parser.
	Parse Code = "ParseError"

	// MultipleModuleCandidates means a library module resolved to more
	// than one file extension under the search path.
	MultipleModuleCandidates Code = "MultipleModuleCandidates"

	// CouldNotFindModule means an imported module is neither in the
	// in-memory directory nor on the library search path.
	CouldNotFindModule Code = "CouldNotFindModule"

	// CouldNotFindFunction means a named import or call target does not
	// resolve to any declaration.
	CouldNotFindFunction Code = "CouldNotFindFunction"

	// CircularImport means following FROM imports revisited a module.
	CircularImport Code = "CircularImport"

	// FunctionNameCollision means one name is declared or imported more
	// than once into a single module.
	FunctionNameCollision Code = "FunctionNameCollision"

	// FunctionRecursionDetected means a function ended up on its own
	// active inline stack.
	FunctionRecursionDetected Code = "FunctionRecursionDetected"

	// FunctionArityMismatch means a call supplied the wrong number of
	// arguments.
	FunctionArityMismatch Code = "FunctionArityMismatch"

	// UnexpectedExprType means narrowing failed, e.g. a literal where an
	// identifier is required.
	UnexpectedExprType Code = "UnexpectedExprType"

	// StrictModeViolation means a macro or function construct appeared
	// while the corresponding strict flag forbids it.
	StrictModeViolation Code = "StrictModeViolation"

	// ConstAssignment means user code assigned to a const variable
	// while CNF_CONST is set.
	ConstAssignment Code = "ConstAssignment"

	// UnsupportedConstruct means a construct cannot be lowered with the
	// current feature flags (e.g. LOOP with neither LOOP nor WHILE).
	UnsupportedConstruct Code = "UnsupportedConstruct"
)
