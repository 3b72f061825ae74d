package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
)

// MaxOracleResultSize limits the result carried by an OracleResponse.
const MaxOracleResultSize = math.MaxUint16

// OracleResponseCode is the outcome of an oracle request.
type OracleResponseCode byte

// Oracle response codes.
const (
	Success                 OracleResponseCode = 0x00
	ProtocolNotSupported    OracleResponseCode = 0x10
	ConsensusUnreachable    OracleResponseCode = 0x12
	NotFound                OracleResponseCode = 0x14
	Timeout                 OracleResponseCode = 0x16
	Forbidden               OracleResponseCode = 0x18
	ResponseTooLarge        OracleResponseCode = 0x1a
	InsufficientFunds       OracleResponseCode = 0x1c
	ContentTypeNotSupported OracleResponseCode = 0x1f
	OracleError             OracleResponseCode = 0xff
)

// oracleCodes lists codes in numeric order, names follow the same order.
var (
	oracleCodes = []OracleResponseCode{
		Success, ProtocolNotSupported, ConsensusUnreachable, NotFound, Timeout,
		Forbidden, ResponseTooLarge, InsufficientFunds, ContentTypeNotSupported, OracleError,
	}
	oracleCodeNames = []string{
		"Success", "ProtocolNotSupported", "ConsensusUnreachable", "NotFound", "Timeout",
		"Forbidden", "ResponseTooLarge", "InsufficientFunds", "ContentTypeNotSupported", "Error",
	}
)

// Oracle response validation errors.
var (
	ErrInvalidResponseCode = errors.New("invalid oracle response code")
	ErrInvalidResult       = errors.New("oracle response != success, but result is not empty")
)

// OracleResponse is the value of the OracleResponse attribute.
type OracleResponse struct {
	ID     uint64             `json:"id"`
	Code   OracleResponseCode `json:"code"`
	Result []byte             `json:"result"`
}

func (c OracleResponseCode) index() int {
	for i, code := range oracleCodes {
		if code == c {
			return i
		}
	}
	return -1
}

// IsValid reports whether c is a known code.
func (c OracleResponseCode) IsValid() bool {
	return c.index() >= 0
}

// String implements the fmt.Stringer interface.
func (c OracleResponseCode) String() string {
	if i := c.index(); i >= 0 {
		return oracleCodeNames[i]
	}
	return fmt.Sprintf("OracleResponseCode(%d)", byte(c))
}

// OracleResponseCodeFromByte checks b to be a known code.
func OracleResponseCodeFromByte(b byte) (OracleResponseCode, error) {
	if c := OracleResponseCode(b); c.IsValid() {
		return c, nil
	}
	return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidResponseCode, b)
}

// OracleResponseCodeFromString finds the code by its name ignoring case.
func OracleResponseCodeFromString(s string) (OracleResponseCode, error) {
	for i, name := range oracleCodeNames {
		if strings.EqualFold(name, s) {
			return oracleCodes[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidResponseCode, s)
}

// MarshalJSON implements the json.Marshaler interface.
func (c OracleResponseCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *OracleResponseCode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	code, err := OracleResponseCodeFromString(name)
	if err == nil {
		*c = code
	}
	return err
}

// EncodeBinary implements the io.Serializable interface.
func (r *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.ID)
	w.WriteB(byte(r.Code))
	w.WriteVarBytes(r.Result)
}

// DecodeBinary implements the io.Serializable interface. Only successful
// responses can carry a result.
func (r *OracleResponse) DecodeBinary(br *io.BinReader) {
	r.ID = br.ReadU64LE()
	code := br.ReadB()
	if br.Err != nil {
		return
	}
	if r.Code, br.Err = OracleResponseCodeFromByte(code); br.Err != nil {
		return
	}
	r.Result = br.ReadVarBytes(MaxOracleResultSize)
	if br.Err == nil && r.Code != Success && len(r.Result) != 0 {
		br.Err = ErrInvalidResult
	}
}

func (r *OracleResponse) size() int {
	return 8 + 1 + io.GetVarBytesSize(r.Result)
}

func (r *OracleResponse) toJSONMap(m map[string]any) {
	m["id"], m["code"], m["result"] = r.ID, r.Code, r.Result
}
