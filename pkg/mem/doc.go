// Package mem implements the Muldis D memory model: the values of the language
// and the Pool that produces them.
//
// The package is organized around two types:  Value and Pool.  Value is an
// immutable node whose Kind selects exactly one foundation payload, and which
// carries a memoized set of well-known types (see package wkt).  Pool is the
// sole authority for producing values.  It exploits the flyweight pattern for
// a statistically-common subset of values (booleans, small integers, short
// codepoint sequences and texts, empty collections, attribute names and small
// headings, well-known excuses), for which structural equality implies
// reference equality.  Callers may use pointer comparison as a fast accept
// path, but must fall back to Same for everything else.
//
// Handles are the exception:  each carries its own identity, and a Variable's
// current value is the only mutable cell in the model.
//
// Construction errors wrap either ErrContractViolation (the caller broke the
// contract) or ErrDomain (the input is foreseeably invalid).  Constructors
// without an error result panic when handed a nil *Value.
//
// A Pool is an explicitly-constructed context object.  There is no global
// pool; values that must interact have to share one.
package mem
