package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrDrained is returned on an attempt to use an already drained write buffer.
var ErrDrained = errors.New("buffer already drained")

// BinWriter writes little-endian binary data to an io.Writer. The first
// error is kept in Err and turns all subsequent writes into no-ops, so
// nested encoders only need to check it once at the top.
type BinWriter struct {
	w   io.Writer
	Err error
	scr [9]byte
}

// NewBinWriterFromIO wraps iow into a BinWriter.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteU64LE writes a little-endian uint64.
func (w *BinWriter) WriteU64LE(v uint64) {
	w.WriteBytes(binary.LittleEndian.AppendUint64(w.scr[:0], v))
}

// WriteU32LE writes a little-endian uint32.
func (w *BinWriter) WriteU32LE(v uint32) {
	w.WriteBytes(binary.LittleEndian.AppendUint32(w.scr[:0], v))
}

// WriteU16LE writes a little-endian uint16.
func (w *BinWriter) WriteU16LE(v uint16) {
	w.WriteBytes(binary.LittleEndian.AppendUint16(w.scr[:0], v))
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(b byte) {
	w.WriteBytes(append(w.scr[:0], b))
}

// WriteBool writes 1 for true and 0 for false.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteVarUint writes val using the variable-length integer encoding: values
// below 0xfd take one byte, larger ones get a 0xfd, 0xfe or 0xff marker
// followed by 2, 4 or 8 bytes.
func (w *BinWriter) WriteVarUint(val uint64) {
	w.WriteBytes(appendVarUint(w.scr[:0], val))
}

func appendVarUint(dst []byte, val uint64) []byte {
	switch {
	case val < 0xfd:
		return append(dst, byte(val))
	case val <= 0xffff:
		return binary.LittleEndian.AppendUint16(append(dst, 0xfd), uint16(val))
	case val <= 0xffffffff:
		return binary.LittleEndian.AppendUint32(append(dst, 0xfe), uint32(val))
	}
	return binary.LittleEndian.AppendUint64(append(dst, 0xff), val)
}

// WriteBytes writes b as is.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// WriteVarBytes writes b prefixed with its length.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes s prefixed with its length.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarUint(uint64(len(s)))
	if w.Err != nil {
		return
	}
	_, w.Err = io.WriteString(w.w, s)
}

// Grow reserves space for n more bytes if the writer is a bytes.Buffer.
func (w *BinWriter) Grow(n int) {
	if b, ok := w.w.(*bytes.Buffer); ok {
		b.Grow(n)
	}
}

// WriteArray writes a length-prefixed array of elements, nil and empty
// slices are encoded the same way.
func WriteArray[Slice ~[]E, E encodable](w *BinWriter, arr Slice) {
	w.WriteVarUint(uint64(len(arr)))
	for i := range arr {
		if w.Err != nil {
			return
		}
		arr[i].EncodeBinary(w)
	}
}

// BufBinWriter is a BinWriter over an internal buffer.
type BufBinWriter struct {
	*BinWriter
	buf bytes.Buffer
}

// NewBufBinWriter returns a writer with an empty buffer.
func NewBufBinWriter() *BufBinWriter {
	bw := new(BufBinWriter)
	bw.BinWriter = NewBinWriterFromIO(&bw.buf)
	return bw
}

// Len returns the number of bytes written so far.
func (bw *BufBinWriter) Len() int {
	return bw.buf.Len()
}

// Bytes returns the written data (nil if there was an error) and drains
// the writer, further writes fail with ErrDrained until Reset.
func (bw *BufBinWriter) Bytes() []byte {
	if bw.Err != nil {
		return nil
	}
	bw.Err = ErrDrained
	return bw.buf.Bytes()
}

// Reset clears the buffer and the error. The slice returned by Bytes shares
// memory with the buffer, so it must be copied before Reset if needed.
func (bw *BufBinWriter) Reset() {
	bw.Err = nil
	bw.buf.Reset()
}
