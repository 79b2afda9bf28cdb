package xdr

import (
	"fmt"
	"io"
)

// Codec is the boundary this package expects a host serialization
// framework (or a hand-written type) to implement: Encode/Decode drive
// exactly the callback schedule RFC 4506 prescribes for the type's shape,
// in declaration order.
type Codec interface {
	// Encode writes the value's XDR encoding to enc.
	Encode(enc *Encoder) error

	// Decode populates the value from dec.
	Decode(dec *Decoder) error
}

// Marshal encodes codec to a freshly allocated byte slice (RFC 4506
// §1's to_bytes entry point).
func Marshal(codec Codec) ([]byte, error) {
	enc := NewEncoder(nil)
	if err := codec.Encode(enc); err != nil {
		return nil, fmt.Errorf("XDR encoding failed: %w", err)
	}
	result := make([]byte, len(enc.Bytes()))
	copy(result, enc.Bytes())
	return result, nil
}

// MarshalTo encodes codec directly to w. Per invariant I5, the bytes
// written are byte-identical to what Marshal would return: both entry
// points drive the same Encode method, only the underlying sink differs.
func MarshalTo(w io.Writer, codec Codec) error {
	enc := NewEncoderToWriter(w)
	if err := codec.Encode(enc); err != nil {
		return fmt.Errorf("XDR encoding failed: %w", err)
	}
	return nil
}

// MarshalRaw wraps pre-encoded XDR bytes in a consistent ownership
// contract (a copy), for exceptional cases — e.g. sparse attribute masks —
// where the caller has already assembled the wire bytes by hand.
func MarshalRaw(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Unmarshal decodes codec from data, which must contain exactly one
// encoded value: trailing bytes are rejected with ErrTrailingBytes (see
// SPEC_FULL.md §4.5 for the resolved Open Question on leftover input).
// Callers that intentionally frame multiple values back to back should
// use UnmarshalPartial instead.
func Unmarshal(data []byte, codec Codec) error {
	rest, err := UnmarshalPartial(data, codec)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("XDR decoding failed: %w", ErrTrailingBytes)
	}
	return nil
}

// UnmarshalPartial decodes codec from the front of data and returns the
// unconsumed tail, enabling callers to frame several values back to back.
func UnmarshalPartial(data []byte, codec Codec) ([]byte, error) {
	dec := NewDecoder(data)
	if err := codec.Decode(dec); err != nil {
		return nil, fmt.Errorf("XDR decoding failed: %w", err)
	}
	return dec.GetSlice(dec.Position(), len(data)), nil
}

// UnmarshalFrom decodes codec from r, reading only the bytes the schema
// requires (it does not drain r).
func UnmarshalFrom(r io.Reader, codec Codec) error {
	dec := NewDecoderFromReader(r)
	if err := codec.Decode(dec); err != nil {
		return fmt.Errorf("XDR decoding failed: %w", err)
	}
	return nil
}
