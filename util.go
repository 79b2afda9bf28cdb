package xdr

import (
	"unicode/utf8"
	"unsafe"
)

func utf8Valid(b []byte) bool {
	return utf8.Valid(b)
}

// unsafeString views b as a string without copying. b must not be mutated
// for the lifetime of the returned string — callers of DecodeStringBorrowed
// are bound by the same borrow contract as the []byte view it wraps.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
