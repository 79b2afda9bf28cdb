package xdr

import (
	"bytes"
	"sort"
)

// This file provides the generic, type-parameterized helpers a Codec
// implementation composes to encode/decode XDR's variable-length shapes
// (optional-data §4.19, sequences, and maps) without hand-rolling the
// count-prefix loop at every call site.

// EncodeOption encodes *v per RFC 4506 §4.19: a u32 0 if v is nil,
// otherwise a u32 1 followed by encodeElem(*v).
func EncodeOption[T any](enc *Encoder, v *T, encodeElem func(*Encoder, T) error) error {
	if v == nil {
		return enc.EncodeBool(false)
	}
	if err := enc.EncodeBool(true); err != nil {
		return err
	}
	return encodeElem(enc, *v)
}

// DecodeOption decodes an optional-data value: a u32 discriminant of 0
// (absent, returns nil) or 1 (present, recurses via decodeElem). Any other
// discriminant value is InvalidOption.
func DecodeOption[T any](dec *Decoder, decodeElem func(*Decoder) (T, error)) (*T, error) {
	v, err := dec.DecodeUint32()
	if err != nil {
		return nil, err
	}
	switch v {
	case 0:
		return nil, nil
	case 1:
		elem, err := decodeElem(dec)
		if err != nil {
			return nil, err
		}
		return &elem, nil
	default:
		return nil, invalidOptionErr(v)
	}
}

// EncodeSlice encodes a variable-length sequence: a u32 element count,
// then each element via encodeElem, in order. Go slices always carry a
// known length, so this never returns ErrLengthRequired; the
// error is retained for parity with spec.md's "LengthRequired" kind,
// which a hand-written Codec forwarding a streaming, not-yet-materialized
// source could still hit.
func EncodeSlice[T any](enc *Encoder, items []T, encodeElem func(*Encoder, T) error) error {
	if err := enc.EncodeUint32(uint32(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := encodeElem(enc, item); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSlice decodes a variable-length sequence: a u32 count, then that
// many elements via decodeElem.
func DecodeSlice[T any](dec *Decoder, decodeElem func(*Decoder) (T, error)) ([]T, error) {
	count, err := dec.decodeLength()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, count)
	for i := 0; i < count; i++ {
		elem, err := decodeElem(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, elem)
	}
	return items, nil
}

// DecodeSliceBounded is DecodeSlice but rejects an on-wire count greater
// than max with a LengthOverflow error before allocating a backing array,
// so a hostile count cannot force an oversized allocation (spec.md §4.3
// "Length safety" / scenario 9).
func DecodeSliceBounded[T any](dec *Decoder, max int, decodeElem func(*Decoder) (T, error)) ([]T, error) {
	count, err := dec.decodeLength()
	if err != nil {
		return nil, err
	}
	if count > max {
		return nil, lengthOverflowErr(max, count)
	}
	items := make([]T, 0, count)
	for i := 0; i < count; i++ {
		elem, err := decodeElem(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, elem)
	}
	return items, nil
}

// EncodeMap encodes a map as a u32 pair count followed by alternating
// key, value encodings, in ascending order of each pair's own encoded
// bytes. Go's map iteration order is randomized per range statement, so
// pairs are first encoded into scratch buffers and sorted before being
// written to enc — this keeps Marshal and MarshalTo byte-identical for
// the same map value (I5) without requiring K to be ordered.
func EncodeMap[K comparable, V any](enc *Encoder, m map[K]V, encodeKey func(*Encoder, K) error, encodeVal func(*Encoder, V) error) error {
	if err := enc.EncodeUint32(uint32(len(m))); err != nil {
		return err
	}
	pairs := make([][]byte, 0, len(m))
	for k, v := range m {
		pairEnc := NewEncoder(nil)
		if err := encodeKey(pairEnc, k); err != nil {
			return err
		}
		if err := encodeVal(pairEnc, v); err != nil {
			return err
		}
		pairs = append(pairs, pairEnc.Bytes())
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i], pairs[j]) < 0
	})
	for _, pair := range pairs {
		if err := enc.sink.write(pair); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMap decodes a map: a u32 pair count, then that many alternating
// key, value pairs.
func DecodeMap[K comparable, V any](dec *Decoder, decodeKey func(*Decoder) (K, error), decodeVal func(*Decoder) (V, error)) (map[K]V, error) {
	count, err := dec.decodeLength()
	if err != nil {
		return nil, err
	}
	m := make(map[K]V, count)
	for i := 0; i < count; i++ {
		k, err := decodeKey(dec)
		if err != nil {
			return nil, err
		}
		v, err := decodeVal(dec)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

// DecodeDiscriminant reads a u32 tagged-union discriminant and checks it
// against valid, the set of variant ordinals the target schema declares.
// An unrecognized value fails with InvalidDiscriminant rather than being
// silently accepted (spec.md §4.3).
func DecodeDiscriminant(dec *Decoder, valid map[uint32]bool) (uint32, error) {
	v, err := dec.DecodeUint32()
	if err != nil {
		return 0, err
	}
	if !valid[v] {
		return 0, invalidDiscriminantErr(v)
	}
	return v, nil
}
