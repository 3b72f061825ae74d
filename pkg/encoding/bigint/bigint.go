// Package bigint converts between big.Int and the VM integer encoding:
// little-endian two's complement with zero being an empty slice.
package bigint

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// MaxBytesLen is the size of the largest VM integer (256-bit signed).
const MaxBytesLen = 32

// FromBytes decodes a little-endian two's complement integer.
func FromBytes(data []byte) *big.Int {
	be := make([]byte, len(data))
	for i, b := range data {
		be[len(data)-1-i] = b
	}
	n := new(big.Int).SetBytes(be)
	if len(be) != 0 && be[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(be))))
	}
	return n
}

// ToBytes encodes n in the shortest little-endian two's complement form.
func ToBytes(n *big.Int) []byte {
	return ToPreallocatedBytes(n, []byte{})
}

// ToPreallocatedBytes is ToBytes reusing data when its capacity is enough.
func ToPreallocatedBytes(n *big.Int, data []byte) []byte {
	sign := n.Sign()
	if sign == 0 {
		return data[:0]
	}
	v := n
	if sign < 0 {
		// ^n is |n|-1 for negative n, its bits are inverted below.
		v = new(big.Int).Not(n)
	}
	size := v.BitLen()/8 + 1
	if cap(data) < size {
		data = make([]byte, size)
	}
	data = v.FillBytes(data[:size])
	for i, j := 0, size-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
	if sign < 0 {
		for i := range data {
			data[i] = ^data[i]
		}
	}
	return data
}

// FitsVM reports whether n is within the 256-bit signed range.
func FitsVM(n *big.Int) bool {
	u, overflow := uint256.FromBig(n)
	return !overflow && (u.Sign() < 0) == (n.Sign() < 0)
}

// FromInt64 is ToBytes for int64 values.
func FromInt64(i int64) []byte {
	switch {
	case i == 0:
		return []byte{}
	case i >= math.MinInt8 && i <= math.MaxInt8:
		return []byte{byte(i)}
	}
	return ToBytes(big.NewInt(i))
}
