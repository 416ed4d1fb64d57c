package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector is a CCIP chain selector. Selectors routinely exceed 2^53, so the
// value is kept as a big integer and decoded from the raw scalar text, never
// through a float.
type Selector struct {
	value *big.Int
}

// ParseSelector parses a base-10 unsigned selector.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty chain selector")
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Selector{}, fmt.Errorf("chain selector %q is not a base-10 integer", s)
	}
	if v.Sign() < 0 {
		return Selector{}, fmt.Errorf("chain selector %q is negative", s)
	}

	return Selector{value: v}, nil
}

// MustSelector is ParseSelector for literals known to be valid.
func MustSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// SelectorFromUint64 wraps a selector taken from a uint64 source.
func SelectorFromUint64(v uint64) Selector {
	return Selector{value: new(big.Int).SetUint64(v)}
}

// SelectorFromBig copies v into a Selector. A nil v yields an unset Selector.
func SelectorFromBig(v *big.Int) Selector {
	if v == nil {
		return Selector{}
	}
	return Selector{value: new(big.Int).Set(v)}
}

// Big returns a copy of the selector value. A zero Selector yields 0.
func (s Selector) Big() *big.Int {
	if s.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.value)
}

// IsSet reports whether the selector was decoded from a value.
func (s Selector) IsSet() bool {
	return s.value != nil
}

func (s Selector) Equal(other Selector) bool {
	return s.Big().Cmp(other.Big()) == 0
}

func (s Selector) String() string {
	return s.Big().String()
}

// UnmarshalYAML accepts both `chain-selector: 123` and `chain-selector: "123"`.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: chain selector must be a scalar", node.Line)
	}

	parsed, err := ParseSelector(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*s = parsed
	return nil
}

// MarshalYAML always emits a quoted string so readers in other languages do
// not round the value.
func (s Selector) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.DoubleQuotedStyle,
		Value: s.String(),
	}, nil
}

func (s *Selector) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return err
		}
		raw = []byte(str)
	}

	parsed, err := ParseSelector(string(raw))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

func (s Selector) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
