package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// MaxArraySize is the default limit for decoded arrays and byte slices.
const MaxArraySize = 0x1000000

// ErrTrailingData is returned by FromArray when the input is longer than the
// decoded entity.
var ErrTrailingData = errors.New("unexpected trailing data")

// BinReader reads little-endian binary data from an io.Reader. Like
// BinWriter it keeps the first error in Err, reads after an error return
// zero values.
type BinReader struct {
	r   io.Reader
	scr [8]byte
	Err error
}

// NewBinReaderFromIO wraps ior into a BinReader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf returns a reader over b.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

// Len returns the number of unread bytes for buffer-backed readers and -1
// for others.
func (r *BinReader) Len() int {
	if br, ok := r.r.(*bytes.Reader); ok {
		return br.Len()
	}
	return -1
}

// fill reads n bytes into the scratch buffer, it returns nil on failure.
func (r *BinReader) fill(n int) []byte {
	r.ReadBytes(r.scr[:n])
	if r.Err != nil {
		return nil
	}
	return r.scr[:n]
}

// ReadU64LE reads a little-endian uint64.
func (r *BinReader) ReadU64LE() uint64 {
	if b := r.fill(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// ReadU32LE reads a little-endian uint32.
func (r *BinReader) ReadU32LE() uint32 {
	if b := r.fill(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// ReadU16LE reads a little-endian uint16.
func (r *BinReader) ReadU16LE() uint16 {
	if b := r.fill(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

// ReadB reads a single byte.
func (r *BinReader) ReadB() byte {
	if b := r.fill(1); b != nil {
		return b[0]
	}
	return 0
}

// ReadBool reads a byte, any non-zero value is true.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadVarUint reads a variable-length integer (see BinWriter.WriteVarUint).
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}
	switch b := r.ReadB(); b {
	case 0xfd:
		return uint64(r.ReadU16LE())
	case 0xfe:
		return uint64(r.ReadU32LE())
	case 0xff:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// readLen reads a length prefix and checks it against the limit given (or
// MaxArraySize). The length is zero after a read error.
func (r *BinReader) readLen(what string, maxSize []int) (int, bool) {
	limit := MaxArraySize
	if len(maxSize) != 0 {
		limit = maxSize[0]
	}
	n := r.ReadVarUint()
	if n > uint64(limit) {
		r.Err = fmt.Errorf("%s is too big (%d)", what, n)
		return 0, false
	}
	return int(n), true
}

// ReadArray decodes a length-prefixed array into t which must be a pointer to
// a slice of decodable values or pointers to them. An optional maxSize
// overrides MaxArraySize.
func (r *BinReader) ReadArray(t any, maxSize ...int) {
	ptr := reflect.ValueOf(t)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		panic(ptr.Type().String() + " is not a pointer to a slice")
	}
	if r.Err != nil {
		return
	}
	n, ok := r.readLen("array", maxSize)
	if !ok {
		return
	}
	sliceType := ptr.Elem().Type()
	elemType := sliceType.Elem()
	arr := reflect.MakeSlice(sliceType, n, n)
	for i := 0; i < n && r.Err == nil; i++ {
		elem := arr.Index(i).Addr()
		if elemType.Kind() == reflect.Ptr {
			elem = reflect.New(elemType.Elem())
			arr.Index(i).Set(elem)
		}
		d, ok := elem.Interface().(decodable)
		if !ok {
			panic(elemType.String() + " is not decodable")
		}
		d.DecodeBinary(r)
	}
	ptr.Elem().Set(arr)
}

// ReadVarBytes reads a length-prefixed byte slice. An optional maxSize
// overrides MaxArraySize.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n, ok := r.readLen("byte-slice", maxSize)
	if !ok {
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return b
}

// ReadBytes fills buf completely.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil {
		return
	}
	_, r.Err = io.ReadFull(r.r, buf)
}

// ReadString reads a length-prefixed string.
func (r *BinReader) ReadString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}
