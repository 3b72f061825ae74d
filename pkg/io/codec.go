package io

// ToArray encodes s into a freshly allocated buffer. If s knows its size, the
// buffer is allocated at once.
func ToArray(s Serializable) ([]byte, error) {
	w := NewBufBinWriter()
	if sz, ok := s.(Sizer); ok {
		w.Grow(sz.Size())
	}
	s.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromArray decodes s from data. Every byte of data must be consumed.
func FromArray(data []byte, s Serializable) error {
	r := NewBinReaderFromBuf(data)
	s.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	if r.Len() != 0 {
		return ErrTrailingData
	}
	return nil
}
