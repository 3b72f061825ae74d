package hash

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is a part of the protocol.
)

// Hashable represents an object which can be hashed. Usually, these objects
// are io.Serializable and signable. They tend to cache the hash inside for
// effectiveness, providing this accessor method. Anything that can be
// identified with a hash can then be signed and verified.
type Hashable interface {
	Hash() util.Uint256
}

// GetSignedData returns the concatenated network magic and hash of the
// hashable item, it's the data being signed by witnesses.
func GetSignedData(net uint32, hh Hashable) []byte {
	var b = make([]byte, 4+util.Uint256Size)
	binary.LittleEndian.PutUint32(b, net)
	h := hh.Hash()
	copy(b[4:], h[:])
	return b
}

// NetSha256 calculates a network-specific hash of the Hashable item that can then
// be signed/verified.
func NetSha256(net uint32, hh Hashable) util.Uint256 {
	return Sha256(GetSignedData(net, hh))
}

// Sha256 hashes the incoming byte slice
// using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return sha256.Sum256(data)
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) util.Uint256 {
	h1 := Sha256(data)
	return Sha256(h1[:])
}

// RipeMD160 performs the RIPEMD160 hash algorithm
// on the given data.
func RipeMD160(data []byte) util.Uint160 {
	var hash util.Uint160
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)

	hasher.Sum(hash[:0])
	return hash
}

// Hash160 performs sha256 and then ripemd160
// on the given data.
func Hash160(data []byte) util.Uint160 {
	h := Sha256(data)
	return RipeMD160(h[:])
}

// Checksum returns the checksum for a given piece of data
// using sha256 twice as the hash algorithm.
func Checksum(data []byte) []byte {
	hash := DoubleSha256(data)
	return hash[:4]
}
