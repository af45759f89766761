package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/interop/internal/foreign"
	"github.com/funvibe/interop/internal/value"
)

func host(v any) value.Value {
	return value.ForeignVal(&foreign.HostObject{Value: v})
}

func TestToI1Integers(t *testing.T) {
	samples := []int64{0, 1, -1, -5, 255, math.MaxInt64, math.MinInt64}
	for _, n := range samples {
		for _, width := range []int{8, 16, 32, 64} {
			v, err := value.IntVal(width, n)
			require.NoError(t, err)
			got, err := NewToI1().Execute(v)
			require.NoError(t, err)
			assert.Equal(t, v.AsInt64() != 0, got, "%s", v.Inspect())
		}
	}
}

func TestToI1Chars(t *testing.T) {
	for _, r := range []rune{0, 'A', 'ÿ', 0xffff} {
		got, err := NewToI1().Execute(value.CharVal(r))
		require.NoError(t, err)
		assert.Equal(t, r != 0, got)
	}
}

func TestToI1Floats(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"zero32", value.Float32Val(0), false},
		{"zero64", value.Float64Val(0), false},
		{"negative zero", value.Float64Val(math.Copysign(0, -1)), false},
		{"negative zero32", value.Float32Val(float32(math.Copysign(0, -1))), false},
		{"half", value.Float64Val(0.5), true},
		{"tiny", value.Float32Val(math.SmallestNonzeroFloat32), true},
		{"NaN", value.Float64Val(math.NaN()), true},
		{"NaN32", value.Float32Val(float32(math.NaN())), true},
		{"-Inf", value.Float64Val(math.Inf(-1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewToI1().Execute(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			slow, err := I1.Generic(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slow, "generic path must agree")
		})
	}
}

func TestToI1Bool(t *testing.T) {
	node := NewToI1()
	for _, b := range []bool{true, false} {
		got, err := node.Execute(value.BoolVal(b))
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
}

func TestToI1Text(t *testing.T) {
	node := NewToI1()

	got, err := node.Execute(value.TextVal("A"))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = node.Execute(value.TextVal("\x00"))
	require.NoError(t, err)
	assert.False(t, got)

	for _, s := range []string{"AB", ""} {
		in := value.TextVal(s)
		_, err = node.Execute(in)
		require.Error(t, err)

		var cerr *CoercionError
		require.True(t, errors.As(err, &cerr))
		assert.ErrorIs(t, err, ErrMalformedText)
		assert.Equal(t, "i1", cerr.Target)
		assert.Equal(t, s, cerr.Value.AsText())
	}
}

type switchable struct{ on bool }

func (s switchable) Bool() bool { return s.on }

func TestToI1Foreign(t *testing.T) {
	node := NewToI1()

	got, err := node.Execute(host(true))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = node.Execute(host(false))
	require.NoError(t, err)
	assert.False(t, got)

	got, err = node.Execute(host(switchable{on: true}))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestToI1ForeignWithoutCapability(t *testing.T) {
	opaque := struct{ Name string }{Name: "opaque"}
	in := host(opaque)

	for _, node := range []*Node[bool]{NewToI1(), NewToI1(WithLimit(0))} {
		_, err := node.Execute(in)
		require.Error(t, err)
		assert.EqualError(t, err, "foreign object can't be converted to boolean")
		assert.ErrorIs(t, err, ErrUnsupportedCapability)
		assert.ErrorIs(t, err, foreign.ErrUnsupportedMessage)

		var cerr *CoercionError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, value.Foreign, cerr.Value.Kind())
		assert.Same(t, in.AsForeign(), cerr.Value.AsForeign())
		assert.Contains(t, cerr.Detail(), "to i1")
	}
}

func TestGenericTreatsUnknownAsForeign(t *testing.T) {
	_, err := I1.Generic(value.Value{})
	assert.ErrorIs(t, err, ErrUnsupportedCapability)

	_, err = I1.Generic(value.ForeignVal(42))
	assert.ErrorIs(t, err, ErrUnsupportedCapability)

	got, err := I1.Generic(host(true))
	require.NoError(t, err)
	assert.True(t, got)

	_, err = I1.Generic(value.TextVal("no"))
	assert.ErrorIs(t, err, ErrMalformedText)
}

func TestConcreteScenarios(t *testing.T) {
	node := NewToI1()
	ok := func(v value.Value) bool {
		got, err := node.Execute(v)
		require.NoError(t, err, v.Inspect())
		return got
	}

	assert.False(t, ok(value.Int32Val(0)))
	assert.True(t, ok(value.Int32Val(-5)))
	assert.False(t, ok(value.Float32Val(0)))
	assert.False(t, ok(value.CharVal(0)))
	assert.True(t, ok(value.TextVal("A")))
	assert.True(t, ok(host(true)))

	_, err := node.Execute(value.TextVal("AB"))
	assert.Error(t, err)
	_, err = node.Execute(host(map[string]int{}))
	assert.EqualError(t, err, "foreign object can't be converted to boolean")
}

// liar claims the boolean capability but fails to deliver it.
type liar struct{}

func (liar) IsBoolean() bool          { return true }
func (liar) AsBoolean() (bool, error) { return false, foreign.ErrUnsupportedMessage }

func TestToI1ForeignReadFailsAfterProbe(t *testing.T) {
	node := NewToI1()
	_, err := node.Execute(host(liar{}))
	require.Error(t, err)
	assert.EqualError(t, err, "foreign object can't be converted to boolean")
	assert.ErrorIs(t, err, foreign.ErrUnsupportedMessage)

	st := node.Snapshot()
	assert.Equal(t, []string{"foreign(*foreign.HostObject)"}, st.Kinds)
	assert.Equal(t, uint64(1), st.Failures)
}
