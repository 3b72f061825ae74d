package io

// GetVarSize returns the number of bytes a variable-length integer takes.
// Reference: GetVarSize(int value) in
// https://github.com/neo-project/neo/blob/master/src/Neo/IO/Helper.cs
func GetVarSize(value int) int {
	switch {
	case value < 0xFD:
		return 1 // uint8
	case value <= 0xFFFF:
		return 3 // byte + uint16
	default:
		return 5 // byte + uint32
	}
}

// GetVarBytesSize returns the encoded size of a length-prefixed byte slice.
func GetVarBytesSize(b []byte) int {
	return GetVarSize(len(b)) + len(b)
}

// GetVarStringSize returns the encoded size of a length-prefixed string.
func GetVarStringSize(s string) int {
	return GetVarSize(len(s)) + len(s)
}

// GetArraySize returns the encoded size of a length-prefixed array of sized
// elements.
func GetArraySize[Slice ~[]E, E Sizer](arr Slice) int {
	size := GetVarSize(len(arr))
	for i := range arr {
		size += arr[i].Size()
	}
	return size
}

// GetFixedArraySize returns the encoded size of a length-prefixed array of
// elemSize-byte elements.
func GetFixedArraySize(n int, elemSize int) int {
	return GetVarSize(n) + n*elemSize
}
