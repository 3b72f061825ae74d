package netmode

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known network magics.
const (
	// MainNet is the Neo N3 main network ("NEO3").
	MainNet Magic = 0x334f454e
	// TestNet is the Neo N3 public test network ("N3T5").
	TestNet Magic = 0x3554334e
	// PrivNet is the magic of the neo-go docker private network.
	PrivNet Magic = 56753
	// UnitTestNet is used by tests.
	UnitTestNet Magic = 42
)

// Magic is a network magic number, it's a part of every signed message so
// that a signature can't be replayed on another network.
type Magic uint32

var names = map[Magic]string{
	MainNet:     "mainnet",
	TestNet:     "testnet",
	PrivNet:     "privnet",
	UnitTestNet: "unit_testnet",
}

// String implements the fmt.Stringer interface. Unknown magics are printed
// in hex.
func (n Magic) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return "net 0x" + strconv.FormatUint(uint64(n), 16)
}

// FromString parses the network name (as returned by String) or a decimal
// (hex with 0x prefix) magic number.
func FromString(s string) (Magic, error) {
	s = strings.TrimSpace(s)
	for m, name := range names {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	u, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown network %q", s)
	}
	return Magic(u), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface, both the network
// name and the number are accepted.
func (n *Magic) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: network magic must be a scalar", node.Line)
	}
	m, err := FromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*n = m
	return nil
}
