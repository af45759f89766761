package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntConstructorsSignExtend(t *testing.T) {
	tests := []struct {
		v     Value
		kind  Kind
		want  int64
		width int
	}{
		{Int8Val(-1), Int8, -1, 8},
		{Int16Val(-300), Int16, -300, 16},
		{Int32Val(math.MinInt32), Int32, math.MinInt32, 32},
		{Int64Val(math.MaxInt64), Int64, math.MaxInt64, 64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.v.Kind())
		assert.Equal(t, tt.want, tt.v.AsInt64())
		assert.Equal(t, tt.width, tt.v.Width())
		assert.True(t, tt.v.Kind().IsInteger())
		assert.True(t, tt.v.Kind().IsNumber())
	}
}

func TestIntValTruncates(t *testing.T) {
	v, err := IntVal(8, 0x1ff)
	require.NoError(t, err)
	assert.Equal(t, Int8, v.Kind())
	assert.Equal(t, int64(-1), v.AsInt64())

	_, err = IntVal(12, 1)
	assert.Error(t, err)
}

func TestFloatKeepsBits(t *testing.T) {
	negZero := math.Copysign(0, -1)
	v := Float64Val(negZero)
	assert.True(t, math.Signbit(v.AsFloat64()))

	v = Float32Val(float32(math.NaN()))
	assert.Equal(t, Float32, v.Kind())
	assert.True(t, math.IsNaN(v.AsFloat64()))

	v, err := FloatVal(32, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.AsFloat64())
	assert.Equal(t, 32, v.Width())

	_, err = FloatVal(16, 1)
	assert.Error(t, err)
}

func TestScalarsAndReferences(t *testing.T) {
	assert.True(t, BoolVal(true).AsBool())
	assert.False(t, BoolVal(false).AsBool())
	assert.Equal(t, 'Ω', CharVal('Ω').AsChar())
	assert.Equal(t, 32, CharVal('😀').Width())
	assert.Equal(t, '😀', CharVal('😀').AsChar())
	assert.Equal(t, rune(0), CharVal(0).AsChar())
	assert.Equal(t, "AB", TextVal("AB").AsText())

	handle := &struct{ n int }{n: 1}
	f := ForeignVal(handle)
	assert.Equal(t, Foreign, f.Kind())
	assert.Same(t, handle, f.AsForeign())

	var zero Value
	assert.False(t, zero.IsValid())
	assert.Equal(t, Invalid, zero.Kind())
}

func TestKindNames(t *testing.T) {
	for k := Int8; k <= Foreign; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("invalid")
	assert.Error(t, err)
	_, err = ParseKind("pointer")
	assert.Error(t, err)
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestInspect(t *testing.T) {
	assert.Equal(t, "int32(-5)", Int32Val(-5).Inspect())
	assert.Equal(t, `char('A')`, CharVal('A').Inspect())
	assert.Equal(t, "true", BoolVal(true).Inspect())
	assert.Equal(t, "float64(NaN)", Float64Val(math.NaN()).Inspect())
	assert.Equal(t, `"AB"`, TextVal("AB").Inspect())
	assert.Equal(t, "foreign(map[string]int)", ForeignVal(map[string]int{}).Inspect())
	assert.Equal(t, "<invalid>", Value{}.Inspect())
}
