// Package util provides fixed-size hash types used across the module.
package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// reversed returns a reversed copy of b.
func reversed(b []byte) []byte {
	dst := make([]byte, len(b))
	for i := range b {
		dst[len(b)-1-i] = b[i]
	}
	return dst
}

// decodeBytes copies b into dst, reversing it if le is set.
func decodeBytes(dst []byte, b []byte, le bool) error {
	if len(b) != len(dst) {
		return fmt.Errorf("expected byte size of %d got %d", len(dst), len(b))
	}
	if le {
		b = reversed(b)
	}
	copy(dst, b)
	return nil
}

// decodeString is decodeBytes for hex strings.
func decodeString(dst []byte, s string, le bool) error {
	if len(s) != 2*len(dst) {
		return fmt.Errorf("expected string size of %d got %d", 2*len(dst), len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	return decodeBytes(dst, b, le)
}

// unmarshalLE decodes a JSON string with LE hex (0x prefix is optional).
func unmarshalLE(dst []byte, data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return decodeString(dst, strings.TrimPrefix(s, "0x"), true)
}

// marshalLE encodes be as a 0x-prefixed LE hex JSON string.
func marshalLE(be []byte) []byte {
	res := make([]byte, 0, 4+2*len(be))
	res = append(res, `"0x`...)
	res = append(res, hex.EncodeToString(reversed(be))...)
	return append(res, '"')
}
