// Package script loads coercion fixtures: a call site, a target and the
// sequence of Boundary Values fed to it.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/interop/internal/config"
	"github.com/funvibe/interop/internal/foreign"
	"github.com/funvibe/interop/internal/text"
	"github.com/funvibe/interop/internal/value"
)

// Script is a fixture file.
//
//	site: cond
//	target: i1
//	inputs:
//	  - {kind: int32, value: -5}
//	  - {kind: float64, value: .nan}
//	  - {kind: foreign, value: true}
type Script struct {
	// Site names the call site; defaults to the file name.
	Site string `yaml:"site,omitempty"`
	// Target is the coercion target; defaults to "i1".
	Target string  `yaml:"target,omitempty"`
	Inputs []Input `yaml:"inputs"`
}

// Input is one value fed to the call site.
type Input struct {
	Kind  string    `yaml:"kind"`
	Value yaml.Node `yaml:"value"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses fixture content. The path is used for defaults and error messages.
func Parse(data []byte, path string) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Site == "" {
		s.Site = path
	}
	if s.Target == "" {
		s.Target = config.TargetI1
	}
	if !config.IsTarget(s.Target) {
		return nil, fmt.Errorf("%s: unknown target %q", path, s.Target)
	}
	return &s, nil
}

// Values decodes every input, in order.
func (s *Script) Values() ([]value.Value, error) {
	vals := make([]value.Value, len(s.Inputs))
	for i, in := range s.Inputs {
		v, err := in.ToValue()
		if err != nil {
			return nil, fmt.Errorf("input %d (line %d): %w", i, in.Value.Line, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// ToValue decodes the input according to its kind. A foreign input wraps the
// decoded YAML in a host object, so a YAML boolean exposes the boolean
// capability and a mapping exposes none.
func (in Input) ToValue() (value.Value, error) {
	kind, err := value.ParseKind(in.Kind)
	if err != nil {
		return value.Value{}, err
	}

	switch kind {
	case value.Int8, value.Int16, value.Int32, value.Int64:
		var n int64
		if err := in.Value.Decode(&n); err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", kind, err)
		}
		v := value.Int64Val(n)
		switch kind {
		case value.Int8:
			v = value.Int8Val(int8(n))
		case value.Int16:
			v = value.Int16Val(int16(n))
		case value.Int32:
			v = value.Int32Val(int32(n))
		}
		return v, nil
	case value.Float32, value.Float64:
		var f float64
		if err := in.Value.Decode(&f); err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", kind, err)
		}
		if kind == value.Float32 {
			return value.Float32Val(float32(f)), nil
		}
		return value.Float64Val(f), nil
	case value.Bool:
		var b bool
		if err := in.Value.Decode(&b); err != nil {
			return value.Value{}, fmt.Errorf("bool: %w", err)
		}
		return value.BoolVal(b), nil
	case value.Char:
		return in.char()
	case value.Text:
		var s string
		if err := in.Value.Decode(&s); err != nil {
			return value.Value{}, fmt.Errorf("text: %w", err)
		}
		return value.TextVal(s), nil
	default:
		var obj interface{}
		if err := in.Value.Decode(&obj); err != nil {
			return value.Value{}, fmt.Errorf("foreign: %w", err)
		}
		return value.ForeignVal(&foreign.HostObject{Value: obj}), nil
	}
}

// char accepts either a code point or a one-character string.
func (in Input) char() (value.Value, error) {
	if in.Value.Kind == yaml.ScalarNode && in.Value.ShortTag() == "!!int" {
		var n int32
		if err := in.Value.Decode(&n); err != nil {
			return value.Value{}, fmt.Errorf("char: %w", err)
		}
		return value.CharVal(n), nil
	}
	var s string
	if err := in.Value.Decode(&s); err != nil {
		return value.Value{}, fmt.Errorf("char: %w", err)
	}
	r, err := text.SingleCharacterOf(s)
	if err != nil {
		return value.Value{}, fmt.Errorf("char: %w", err)
	}
	return value.CharVal(r), nil
}
