package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/rfc6979"
)

// privateKeyLen is the size of a serialized private scalar.
const privateKeyLen = 32

// ErrInvalidPrivateKey is returned when a key can't be used for signing.
var ErrInvalidPrivateKey = errors.New("invalid private key")

// PrivateKey is an EC private key. Signatures are deterministic (RFC 6979)
// and are returned in a fixed-size r||s form.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey generates a random secp256r1 key.
func NewPrivateKey() (*PrivateKey, error) {
	return generate(elliptic.P256())
}

// NewSecp256k1PrivateKey generates a random secp256k1 key.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return generate(secp256k1.S256())
}

func generate(c elliptic.Curve) (*PrivateKey, error) {
	k, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PrivateKey: *k}, nil
}

// NewPrivateKeyFromHex decodes a hex-encoded secp256r1 scalar.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes creates a secp256r1 key from its 32-byte scalar. Zero
// and values not below the curve order are rejected.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != privateKeyLen {
		return nil, fmt.Errorf("invalid byte length: expected %d bytes got %d", privateKeyLen, len(b))
	}
	c := elliptic.P256()
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(c.Params().N) >= 0 {
		return nil, ErrInvalidPrivateKey
	}
	k := &PrivateKey{}
	k.D = d
	k.Curve = c
	k.X, k.Y = c.ScalarBaseMult(b)
	return k, nil
}

// NewPrivateKeyFromWIF decodes a key in wallet import format.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}

// PublicKey returns the public part of the key.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := PublicKey(p.PrivateKey.PublicKey)
	return &pub
}

// WIF returns the key in compressed wallet import format.
func (p *PrivateKey) WIF() string {
	w, err := WIFEncode(p.Bytes(), WIFVersion, true)
	if err != nil {
		// Bytes always has the right length.
		panic(err)
	}
	return w
}

// Destroy zeroes the private scalar, the key is unusable after that.
func (p *PrivateKey) Destroy() {
	words := p.D.Bits()
	for i := range words {
		words[i] = 0
	}
}

// Address returns the address of the standard account for the key.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// GetScriptHash returns the standard account script hash for the key.
func (p *PrivateKey) GetScriptHash() util.Uint160 {
	return p.PublicKey().GetScriptHash()
}

// Sign signs SHA-256 of data.
func (p *PrivateKey) Sign(data []byte) []byte {
	return p.SignHash(sha256.Sum256(data))
}

// SignMessage is the fallible version of Sign, it refuses to work with keys
// having no usable scalar.
func (p *PrivateKey) SignMessage(data []byte) ([]byte, error) {
	if p == nil || p.D == nil || p.D.Sign() == 0 || p.Curve == nil {
		return nil, ErrInvalidPrivateKey
	}
	return p.Sign(data), nil
}

// SignHash signs an already computed digest.
func (p *PrivateKey) SignHash(digest util.Uint256) []byte {
	r, s := rfc6979.SignECDSA(&p.PrivateKey, digest[:], sha256.New)
	size := p.Curve.Params().P.BitLen() / 8
	sig := make([]byte, 2*size)
	r.FillBytes(sig[:size])
	s.FillBytes(sig[size:])
	return sig
}

// SignHashable signs the network-bound digest of hh (see hash.NetSha256).
func (p *PrivateKey) SignHashable(net uint32, hh hash.Hashable) []byte {
	return p.SignHash(hash.NetSha256(net, hh))
}

// String returns the hex-encoded scalar.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Bytes returns the 32-byte scalar.
func (p *PrivateKey) Bytes() []byte {
	return p.D.FillBytes(make([]byte, privateKeyLen))
}
