package keys

import (
	"github.com/nspcc-dev/neo-txauth/pkg/io"
)

// PublicKeys is a list of public keys, it sorts in the order used by
// multisignature verification scripts.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int           { return len(keys) }
func (keys PublicKeys) Swap(i, j int)      { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool { return keys[i].Cmp(keys[j]) < 0 }

// DecodeBytes decodes a var-length array of keys.
func (keys *PublicKeys) DecodeBytes(data []byte) error {
	r := io.NewBinReaderFromBuf(data)
	r.ReadArray(keys)
	return r.Err
}

// Bytes encodes keys as a var-length array.
func (keys *PublicKeys) Bytes() []byte {
	w := io.NewBufBinWriter()
	io.WriteArray(w.BinWriter, *keys)
	if w.Err != nil {
		panic(w.Err)
	}
	return w.Bytes()
}

// Contains reports whether an equal key is in the list.
func (keys PublicKeys) Contains(k *PublicKey) bool {
	return keys.IndexOf(k) != -1
}

// IndexOf returns the position of the first key equal to k or -1.
func (keys PublicKeys) IndexOf(k *PublicKey) int {
	for i := range keys {
		if keys[i].Equal(k) {
			return i
		}
	}
	return -1
}

// Copy returns a new slice with the same key pointers.
func (keys PublicKeys) Copy() PublicKeys {
	if keys == nil {
		return nil
	}
	return append(make(PublicKeys, 0, len(keys)), keys...)
}

// Unique returns keys without duplicates, the first occurrence is kept.
func (keys PublicKeys) Unique() PublicKeys {
	res := make(PublicKeys, 0, len(keys))
	for _, k := range keys {
		if !res.Contains(k) {
			res = append(res, k)
		}
	}
	return res
}
