// Package expr compiles the textual value of a node field into a Mapper, a
// pure function from an evaluation Context to a value.
//
// # Text Format
//
// A field value that is not a string passes through unchanged. A string whose
// first non-space character is '=' is a formula: everything after the '=' is
// parsed as an HCL native-syntax expression and evaluated against the Context
// on every call. Any other string is auto-converted once at compile time:
//
//	"\"42\""  -> "42"   (double quotes are stripped, the inner text is kept verbatim)
//	"true"    -> true
//	"42"      -> 42     (float64)
//	"abc"     -> "abc"
//
// # Failure Semantics
//
// Formulas are user-authored, so neither a compile failure nor an evaluation
// failure is returned to the caller. Both are logged through the logger found
// on the compile context and the Mapper yields nil.
//
// # Evaluation Context
//
// A Context is built by NewContext: the row's own fields first, then the
// runtime variables over them, then three reserved keys, "row", "i" and
// "key", holding the current row, its index and the current column or group
// key. Reserved keys whose value is not applicable hold nil.
package expr
