package fixedn

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"gopkg.in/yaml.v3"
)

const (
	precision = 8
	decimals  = 100000000
)

// ErrInvalidFormat is returned when the string is not a valid fixed point
// number.
var ErrInvalidFormat = errors.New("invalid fixed point number format")

// Fixed8 represents a fixed-point number with precision 10^-8. GAS amounts
// (and thus transaction fees) are expressed in it.
type Fixed8 int64

// String formats the value with up to 8 fractional digits and no trailing
// zeroes.
func (f Fixed8) String() string {
	v := int64(f)
	var sign string
	if v < 0 {
		sign, v = "-", -v
	}
	res := sign + strconv.FormatInt(v/decimals, 10)
	if frac := v % decimals; frac != 0 {
		digits := strconv.FormatInt(frac+decimals, 10)[1:]
		res += "." + strings.TrimRight(digits, "0")
	}
	return res
}

// IntegralValue returns an integer part of the original value representing
// Fixed8 as int64.
func (f Fixed8) IntegralValue() int64 {
	return int64(f) / decimals
}

// FractionalValue returns a decimal part of the original value. It has the same
// sign as f, so that f = f.IntegralValue() + f.FractionalValue().
func (f Fixed8) FractionalValue() int32 {
	return int32(int64(f) % decimals)
}

// Fixed8FromInt64 returns a new Fixed8 type multiplied by decimals.
func Fixed8FromInt64(val int64) Fixed8 {
	return Fixed8(decimals * val)
}

// Fixed8FromString parses s which must be a fixed point number
// with precision up to 10^-8.
func Fixed8FromString(s string) (Fixed8, error) {
	var neg bool
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	ip, fp, _ := strings.Cut(s, ".")
	if ip == "" || len(fp) > precision || strings.ContainsAny(ip+fp, "+-") {
		return 0, ErrInvalidFormat
	}
	integral, err := strconv.ParseInt(ip, 10, 64)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	var frac int64
	if fp != "" {
		frac, err = strconv.ParseInt(fp+strings.Repeat("0", precision-len(fp)), 10, 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
	}
	if integral > (math.MaxInt64-frac)/decimals {
		return 0, ErrInvalidFormat
	}
	val := integral*decimals + frac
	if neg {
		val = -val
	}
	return Fixed8(val), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface, both strings and
// numbers are accepted.
func (f *Fixed8) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	return f.set(s)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (f *Fixed8) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return f.set(s)
}

func (f *Fixed8) set(s string) error {
	v, err := Fixed8FromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalJSON implements the json.Marshaler interface, the value is a
// string.
func (f Fixed8) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.String())), nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (f Fixed8) MarshalYAML() (any, error) {
	return f.String(), nil
}

// DecodeBinary implements the io.Serializable interface.
func (f *Fixed8) DecodeBinary(r *io.BinReader) {
	*f = Fixed8(r.ReadU64LE())
}

// EncodeBinary implements the io.Serializable interface.
func (f *Fixed8) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(*f))
}
