package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope is a set of flags limiting where a signer witness is valid.
type WitnessScope byte

// Witness scope flags.
const (
	// None makes the witness valid for transaction fee payment only.
	None WitnessScope = 0
	// CalledByEntry limits the witness to the entry script and contracts it
	// calls directly.
	CalledByEntry WitnessScope = 0x01
	// CustomContracts allows the contracts listed in the signer.
	CustomContracts WitnessScope = 0x10
	// CustomGroups allows contracts from the groups listed in the signer.
	CustomGroups WitnessScope = 0x20
	// Rules evaluates the signer rules.
	Rules WitnessScope = 0x40
	// Global makes the witness valid everywhere, it can't be combined with
	// other flags.
	Global WitnessScope = 0x80
)

const validScopes = CalledByEntry | CustomContracts | CustomGroups | Rules | Global

// scopeOrder and scopeNames define the order used by Split and String.
var (
	scopeOrder = []WitnessScope{None, CalledByEntry, CustomContracts, CustomGroups, Rules, Global}
	scopeNames = []string{"None", "CalledByEntry", "CustomContracts", "CustomGroups", "WitnessRules", "Global"}
)

func errGlobalCombined() error {
	return NewError(SignerConfiguration, "Global scope can not be combined with other scopes")
}

func (s WitnessScope) name() string {
	for i, f := range scopeOrder {
		if f == s {
			return scopeNames[i]
		}
	}
	return ""
}

// CombineScopes returns the union of scopes.
func CombineScopes(scopes ...WitnessScope) WitnessScope {
	var res WitnessScope
	for _, s := range scopes {
		res |= s
	}
	return res
}

// Split returns the flags set in s in declaration order, it's [None] for
// zero. Unknown bits are dropped. None is never reported for non-zero values,
// so a set mixing None with other scopes doesn't survive CombineScopes and
// Split: [None, Global] becomes [Global].
func (s WitnessScope) Split() []WitnessScope {
	if s == None {
		return []WitnessScope{None}
	}
	res := make([]WitnessScope, 0, len(scopeOrder)-1)
	for _, f := range scopeOrder[1:] {
		if s&f == f {
			res = append(res, f)
		}
	}
	return res
}

// ScopeFromValue returns the single scope flag equal to b. Other values are
// Codec errors.
func ScopeFromValue(b byte) (WitnessScope, error) {
	if s := WitnessScope(b); s.name() != "" {
		return s, nil
	}
	return 0, NewCodecError(fmt.Errorf("unknown witness scope 0x%02x", b))
}

// ScopesFromByte checks b to be a valid set of scopes.
func ScopesFromByte(b byte) (WitnessScope, error) {
	s := WitnessScope(b)
	switch {
	case s&^validScopes != 0:
		return 0, NewError(SignerConfiguration, fmt.Sprintf("unknown witness scope bits 0x%02x", b))
	case s&Global != 0 && s != Global:
		return 0, errGlobalCombined()
	}
	return s, nil
}

// ScopesFromString parses comma-separated scope names, for example
// "CalledByEntry, CustomGroups". Names are case-sensitive.
func ScopesFromString(s string) (WitnessScope, error) {
	var res WitnessScope
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		i := 0
		for i < len(scopeNames) && scopeNames[i] != part {
			i++
		}
		if i == len(scopeNames) {
			return 0, NewError(SignerConfiguration, fmt.Sprintf("invalid witness scope: %q", part))
		}
		res |= scopeOrder[i]
	}
	if res&Global != 0 && res != Global {
		return 0, errGlobalCombined()
	}
	return res, nil
}

// String joins scope names with ", ".
func (s WitnessScope) String() string {
	var sb strings.Builder
	for i, f := range s.Split() {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.name())
	}
	return sb.String()
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var names string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	scopes, err := ScopesFromString(names)
	if err == nil {
		*s = scopes
	}
	return err
}
