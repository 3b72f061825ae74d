package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neo-txauth/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
	"gopkg.in/yaml.v3"
)

const (
	// coordLen is the size of a serialized X or Y coordinate.
	coordLen = 32

	// SignatureLen is the length of a standard signature for 256-bit EC key.
	SignatureLen = 64

	// PublicKeyLen is the length of a compressed public key.
	PublicKeyLen = 33

	// keyCacheSize is the number of decoded P256 keys kept around, the same
	// keys are decoded again on every multisig script parse.
	keyCacheSize = 1024
)

// Point encoding prefixes.
const (
	prefixEven         byte = 0x02
	prefixOdd          byte = 0x03
	prefixUncompressed byte = 0x04
)

var keyCache, _ = lru.New(keyCacheSize)

// PublicKey is an EC public key, secp256r1 is assumed unless the curve is
// set explicitly.
type PublicKey ecdsa.PublicKey

// Equal reports whether both keys are the same point.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.Cmp(key) == 0
}

// Cmp compares keys by X and then by Y coordinate.
func (p *PublicKey) Cmp(key *PublicKey) int {
	if c := p.X.Cmp(key.X); c != 0 {
		return c
	}
	return p.Y.Cmp(key.Y)
}

// NewPublicKeyFromString decodes a hex-encoded secp256r1 key.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b, elliptic.P256())
}

// NewPublicKeyFromBytes decodes a compressed or uncompressed key on the given
// curve. Decoded secp256r1 keys are cached.
func NewPublicKeyFromBytes(b []byte, curve elliptic.Curve) (*PublicKey, error) {
	cached := curve == elliptic.P256()
	if cached {
		if k, ok := keyCache.Get(string(b)); ok {
			cp := *k.(*PublicKey)
			return &cp, nil
		}
	}
	pub := &PublicKey{Curve: curve}
	if err := pub.DecodeBytes(b); err != nil {
		return nil, err
	}
	if cached {
		cp := *pub
		keyCache.Add(string(b), &cp)
	}
	return pub, nil
}

// Bytes returns the compressed form of the key (33 bytes with 0x02 or 0x03
// prefix).
func (p *PublicKey) Bytes() []byte {
	res := make([]byte, 1+coordLen)
	res[0] = prefixEven | byte(p.Y.Bit(0))
	p.X.FillBytes(res[1:])
	return res
}

// UncompressedBytes returns the uncompressed form of the key (65 bytes with
// 0x04 prefix).
func (p *PublicKey) UncompressedBytes() []byte {
	res := make([]byte, 1+2*coordLen)
	res[0] = prefixUncompressed
	p.X.FillBytes(res[1 : 1+coordLen])
	p.Y.FillBytes(res[1+coordLen:])
	return res
}

// curveA returns the a coefficient of the short Weierstrass form
// y² = x³ + ax + b, it's 0 for secp256k1 and -3 for NIST curves.
func curveA(curve elliptic.Curve) *big.Int {
	if _, ok := curve.(*secp256k1.KoblitzCurve); ok {
		return big.NewInt(0)
	}
	return big.NewInt(-3)
}

// decompressY restores the Y coordinate with the given parity for X.
func decompressY(x *big.Int, odd uint, curve elliptic.Curve) (*big.Int, error) {
	params := curve.Params()
	rhs := new(big.Int).Exp(x, big.NewInt(3), params.P)
	ax := new(big.Int).Mul(curveA(curve), x)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, params.B)
	rhs.Mod(rhs, params.P)
	y := new(big.Int).ModSqrt(rhs, params.P)
	if y == nil {
		return nil, errors.New("error computing Y for compressed point")
	}
	if y.Bit(0) != odd {
		y.Sub(params.P, y)
	}
	return y, nil
}

// DecodeBytes decodes the key from data, trailing bytes are an error.
func (p *PublicKey) DecodeBytes(data []byte) error {
	r := io.NewBinReaderFromBuf(data)
	p.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	if r.Len() != 0 {
		return errors.New("extra data")
	}
	return nil
}

// DecodeBinary implements the io.Serializable interface. Points are checked
// to be on the curve, secp256r1 is used if the key has no curve set.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}
	if p.Curve == nil {
		p.Curve = elliptic.P256()
	}
	params := p.Params()

	var (
		x, y = new(big.Int), new(big.Int)
		buf  = make([]byte, coordLen)
	)
	switch prefix {
	case prefixEven, prefixOdd:
		r.ReadBytes(buf)
		if r.Err != nil {
			return
		}
		x.SetBytes(buf)
		if x.Cmp(params.P) >= 0 {
			r.Err = errors.New("encoded point is not correct (X is bigger than P)")
			return
		}
		var err error
		if y, err = decompressY(x, uint(prefix&1), p.Curve); err != nil {
			r.Err = err
			return
		}
	case prefixUncompressed:
		r.ReadBytes(buf)
		x.SetBytes(buf)
		r.ReadBytes(buf)
		if r.Err != nil {
			return
		}
		y.SetBytes(buf)
		if x.Cmp(params.P) >= 0 || y.Cmp(params.P) >= 0 {
			r.Err = errors.New("encoded point is not correct (X or Y is bigger than P)")
			return
		}
		if !p.Curve.IsOnCurve(x, y) {
			r.Err = errors.New("encoded point is not on the curve")
			return
		}
	default:
		r.Err = fmt.Errorf("invalid prefix %d", prefix)
		return
	}
	p.X, p.Y = x, y
}

// EncodeBinary implements the io.Serializable interface.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// Size returns the encoded (compressed) size of the key.
func (p *PublicKey) Size() int {
	return PublicKeyLen
}

// GetVerificationScript returns the standard single signature verification
// script: PUSHDATA1 <key> SYSCALL System.Crypto.CheckSig.
func (p *PublicKey) GetVerificationScript() []byte {
	id := interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig))
	script := make([]byte, 0, 2+PublicKeyLen+5)
	script = append(script, byte(opcode.PUSHDATA1), PublicKeyLen)
	script = append(script, p.Bytes()...)
	return append(script, byte(opcode.SYSCALL), byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
}

// GetScriptHash returns the hash of the verification script.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns the address of the standard account for the key.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify checks a 64-byte r||s signature of the given digest.
func (p *PublicKey) Verify(signature []byte, digest []byte) bool {
	if p.X == nil || p.Y == nil || len(signature) != SignatureLen {
		return false
	}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	return ecdsa.Verify((*ecdsa.PublicKey)(p), digest, r, s)
}

// VerifyHashable checks a signature of the network-bound hashable digest.
func (p *PublicKey) VerifyHashable(signature []byte, net uint32, hh hash.Hashable) bool {
	digest := hash.NetSha256(net, hh)
	return p.Verify(signature, digest[:])
}

// StringCompressed returns the key in hex-encoded compressed form.
func (p *PublicKey) StringCompressed() string {
	return hex.EncodeToString(p.Bytes())
}

// String implements the fmt.Stringer interface.
func (p *PublicKey) String() string {
	return p.StringCompressed()
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringCompressed())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return p.decodeString(s)
}

// MarshalYAML implements the yaml.Marshaler interface.
func (p *PublicKey) MarshalYAML() (any, error) {
	return p.StringCompressed(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (p *PublicKey) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return p.decodeString(s)
}

func (p *PublicKey) decodeString(s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("failed to decode public key from hex bytes: %w", err)
	}
	return p.DecodeBytes(b)
}
