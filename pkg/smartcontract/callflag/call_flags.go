package callflag

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CallFlag represents a call flag.
type CallFlag byte

// Default flags.
const (
	ReadStates CallFlag = 1 << iota
	WriteStates
	AllowCall
	AllowNotify

	States            = ReadStates | WriteStates
	ReadOnly          = ReadStates | AllowCall
	All               = States | AllowCall | AllowNotify
	NoneFlag CallFlag = 0
)

// ErrInvalidValue is returned for bytes and strings that don't denote a flag.
var ErrInvalidValue = errors.New("invalid call flag")

var flagString = map[CallFlag]string{
	ReadStates:  "ReadStates",
	WriteStates: "WriteStates",
	AllowCall:   "AllowCall",
	AllowNotify: "AllowNotify",
	States:      "States",
	ReadOnly:    "ReadOnly",
	All:         "All",
	NoneFlag:    "None",
}

// decomposition order for String, composites go first.
var stringOrder = []CallFlag{All, States, ReadOnly, ReadStates, WriteStates, AllowCall, AllowNotify}

// Has returns true iff all bits set in cf are also set in f.
func (f CallFlag) Has(cf CallFlag) bool {
	return f&cf == cf
}

// Value returns the wire byte of the flag.
func (f CallFlag) Value() byte {
	return byte(f)
}

// FromValue converts a wire byte into one of the enumerated flags. Bytes
// not matching exactly one of them are rejected.
func FromValue(b byte) (CallFlag, error) {
	f := CallFlag(b)
	if _, ok := flagString[f]; !ok {
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidValue, b)
	}
	return f, nil
}

// String implements the Stringer interface.
func (f CallFlag) String() string {
	if s, ok := flagString[f]; ok {
		return s
	}

	var res []string
	rest := f
	for _, flag := range stringOrder {
		if rest.Has(flag) {
			res = append(res, flagString[flag])
			rest &^= flag
		}
	}
	if rest != 0 {
		res = append(res, fmt.Sprintf("0x%02x", byte(rest)))
	}
	return strings.Join(res, ", ")
}

// FromString parses an input string and returns a corresponding CallFlag.
// Comma-separated lists of flag names are accepted.
func FromString(s string) (CallFlag, error) {
	flags := strings.Split(s, ",")
	if len(flags) == 0 {
		return NoneFlag, ErrInvalidValue
	}
	if len(flags) == 1 {
		for f, str := range flagString {
			if s == str {
				return f, nil
			}
		}
		return NoneFlag, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	var res CallFlag

	for _, flag := range flags {
		var knownFlag bool

		flag = strings.TrimSpace(flag)
		for _, f := range stringOrder {
			if flag == flagString[f] {
				res |= f
				knownFlag = true
				break
			}
		}
		if !knownFlag {
			return NoneFlag, fmt.Errorf("%w: %q", ErrInvalidValue, flag)
		}
	}
	return res, nil
}

// MarshalJSON implements the JSON marshaler interface.
func (f CallFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements the JSON unmarshaler interface.
func (f *CallFlag) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	flag, err := FromString(js)
	if err != nil {
		return err
	}
	*f = flag
	return nil
}

// MarshalYAML implements the YAML marshaler interface.
func (f CallFlag) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML implements the YAML unmarshaler interface.
func (f *CallFlag) UnmarshalYAML(unmarshal func(any) error) error {
	var s string

	err := unmarshal(&s)
	if err != nil {
		return err
	}

	*f, err = FromString(s)
	return err
}
