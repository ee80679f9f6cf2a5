package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		kind     Kind
		rendered string
	}{
		{"Bool", Bool(true), KindBool, "true"},
		{"Int", Int(-7), KindInt, "-7"},
		{"Uint", Uint(uint(7)), KindUint, "7"},
		{"Float", Float(0.5), KindFloat, "0.5"},
		{"String", String("Median"), KindString, "Median"},
		{"GeneratorRef", GeneratorRef("log_uniform"), KindGeneratorRef, "generator:log_uniform"},
		{"Invalid", Value{}, KindInvalid, "<invalid>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind)
			assert.Equal(t, tt.rendered, tt.value.String())
		})
	}
}

func TestValueAccessors(t *testing.T) {
	if _, ok := Int(3).AsBool(); ok {
		t.Error("AsBool should fail on int value")
	}
	if v, ok := Int(3).AsInt64(); !ok || v != 3 {
		t.Errorf("AsInt64 = (%d, %t), want (3, true)", v, ok)
	}
	if v, ok := Float(2.5).AsFloat64(); !ok || v != 2.5 {
		t.Errorf("AsFloat64 = (%g, %t), want (2.5, true)", v, ok)
	}
	if name, ok := GeneratorRef("g").GeneratorName(); !ok || name != "g" {
		t.Errorf("GeneratorName = (%q, %t), want (g, true)", name, ok)
	}
	if _, ok := String("g").GeneratorName(); ok {
		t.Error("GeneratorName should fail on string literal")
	}
}

func TestValueEquality(t *testing.T) {
	assert.Equal(t, Int(32), Int(int64(32)))
	assert.NotEqual(t, Int(32), Uint(uint64(32)))
	assert.NotEqual(t, String("Median"), GeneratorRef("Median"))
}

func TestIntValueCoercion(t *testing.T) {
	tests := []struct {
		value Value
		want  int
		ok    bool
	}{
		{Int(64), 64, true},
		{Uint(uint64(64)), 64, true},
		{Float(64.9), 64, true},
		{String("64"), 0, false},
		{Bool(true), 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.value.IntValue()
		assert.Equal(t, tt.ok, ok, "value %s", tt.value)
		assert.Equal(t, tt.want, got, "value %s", tt.value)
	}
}

func TestValuesHelper(t *testing.T) {
	vs := Values(Int(1), Int(2))
	assert.Len(t, vs, 2)
	assert.Equal(t, Int(2), vs[1])
}
