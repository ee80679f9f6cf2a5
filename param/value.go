// Package param provides the typed parameter values that make up a search
// space: small tagged variants for boolean, integer, unsigned, floating point
// and string hyperparameter candidates, plus symbolic references to registered
// random distribution generators.
package param

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents a signed integer value.
	KindInt
	// KindUint represents an unsigned integer value.
	KindUint
	// KindFloat represents a floating point value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindGeneratorRef represents a symbolic reference to a registered random
	// distribution generator. It must be resolved to a concrete value before
	// a trial can use it.
	KindGeneratorRef
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindGeneratorRef:
		return "generator"
	default:
		return "invalid"
	}
}

// Value is a small typed hyperparameter value.
//
// The representation avoids reflection and interface boxing: one tag plus a
// field per payload type. Values are comparable, so structural equality works
// with ==.
type Value struct {
	Kind Kind
	B    bool
	I64  int64
	U64  uint64
	F64  float64
	S    string // string literal or generator name
}

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int returns a signed integer Value.
func Int[T constraints.Signed](v T) Value { return Value{Kind: KindInt, I64: int64(v)} }

// Uint returns an unsigned integer Value.
func Uint[T constraints.Unsigned](v T) Value { return Value{Kind: KindUint, U64: uint64(v)} }

// Float returns a floating point Value.
func Float[T constraints.Float](v T) Value { return Value{Kind: KindFloat, F64: float64(v)} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// GeneratorRef returns a symbolic reference to the named random distribution
// generator.
func GeneratorRef(name string) Value { return Value{Kind: KindGeneratorRef, S: name} }

// AsBool returns the boolean payload if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsInt64 returns the signed integer payload if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsUint64 returns the unsigned integer payload if Kind is KindUint.
func (v Value) AsUint64() (uint64, bool) {
	if v.Kind != KindUint {
		return 0, false
	}
	return v.U64, true
}

// AsFloat64 returns the floating point payload if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string payload if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// GeneratorName returns the generator name if Kind is KindGeneratorRef.
func (v Value) GeneratorName() (string, bool) {
	if v.Kind != KindGeneratorRef {
		return "", false
	}
	return v.S, true
}

// IsNumeric reports whether the value carries an int, uint or float payload.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindUint || v.Kind == KindFloat
}

// IntValue coerces a numeric payload to int. The second result is false for
// non-numeric kinds.
func (v Value) IntValue() (int, bool) {
	switch v.Kind {
	case KindInt:
		return int(v.I64), true
	case KindUint:
		return int(v.U64), true
	case KindFloat:
		return int(v.F64), true
	default:
		return 0, false
	}
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindUint:
		return strconv.FormatUint(v.U64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.S
	case KindGeneratorRef:
		return "generator:" + v.S
	default:
		return "<invalid>"
	}
}

// ValueSet is an ordered, indexable sequence of candidate values for one
// dimension of a search space. A set used for iteration must be non-empty;
// uniqueness of elements is not required.
type ValueSet []Value

// Values builds a ValueSet from its arguments.
func Values(vs ...Value) ValueSet { return ValueSet(vs) }
