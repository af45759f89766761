package script

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/interop/internal/foreign"
	"github.com/funvibe/interop/internal/value"
)

const fixture = `
site: cond
target: i1
inputs:
  - {kind: int8, value: 300}
  - {kind: int32, value: -5}
  - {kind: int64, value: 0}
  - {kind: float32, value: -0.0}
  - {kind: float64, value: .nan}
  - {kind: bool, value: true}
  - {kind: char, value: "A"}
  - {kind: char, value: 0}
  - {kind: text, value: "AB"}
  - {kind: foreign, value: true}
  - {kind: foreign, value: {name: opaque}}
`

func TestParseAndDecode(t *testing.T) {
	s, err := Parse([]byte(fixture), "fixture.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cond", s.Site)
	assert.Equal(t, "i1", s.Target)

	vals, err := s.Values()
	require.NoError(t, err)
	require.Len(t, vals, 11)

	assert.Equal(t, value.Int8, vals[0].Kind())
	assert.Equal(t, int64(44), vals[0].AsInt64())
	assert.Equal(t, int64(-5), vals[1].AsInt64())
	assert.Equal(t, value.Float32, vals[3].Kind())
	assert.True(t, math.Signbit(vals[3].AsFloat64()))
	assert.True(t, math.IsNaN(vals[4].AsFloat64()))
	assert.True(t, vals[5].AsBool())
	assert.Equal(t, 'A', vals[6].AsChar())
	assert.Equal(t, rune(0), vals[7].AsChar())
	assert.Equal(t, "AB", vals[8].AsText())

	h, ok := vals[9].AsForeign().(*foreign.HostObject)
	require.True(t, ok)
	assert.Equal(t, true, h.Value)
	assert.True(t, foreign.Probe(vals[9].AsForeign()))
	assert.False(t, foreign.Probe(vals[10].AsForeign()))
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte("inputs: []"), "cases/empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cases/empty.yaml", s.Site)
	assert.Equal(t, "i1", s.Target)

	_, err = Parse([]byte("target: pointer"), "x.yaml")
	assert.ErrorContains(t, err, `unknown target "pointer"`)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown kind", "inputs: [{kind: pointer, value: 1}]", "unknown value kind"},
		{"bad int", "inputs: [{kind: int32, value: abc}]", "int32"},
		{"bad float", "inputs: [{kind: float64, value: [1]}]", "float64"},
		{"bad char", "inputs: [{kind: char, value: AB}]", "char"},
		{"bad bool", "inputs: [{kind: bool, value: maybe}]", "bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.yaml), "x.yaml")
			require.NoError(t, err)
			_, err = s.Values()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "input 0")
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Inputs, 11)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading script")
}
