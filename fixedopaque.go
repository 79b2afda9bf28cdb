package xdr

// EncodeFixedOpaque writes arr directly (no length prefix) followed by
// zero-pad to a 4-octet boundary, per RFC 4506 §4.9. It is the named,
// explicit opt-in a field annotates to bypass the default per-element
// widening §4.12 would otherwise apply to "array of octet": protocol
// fields that are raw blobs (file handles, stateids, verifiers) call this
// instead of encoding each byte as its own 4-octet element.
//
// N = len(arr) == 0 is valid and emits nothing.
func EncodeFixedOpaque(enc *Encoder, arr []byte) error {
	return enc.EncodeFixedBytes(arr)
}

// DecodeFixedOpaque reads n octets plus pad, verifying the pad is zero,
// and returns a fresh N-byte array. N == 0 is valid and consumes nothing.
func DecodeFixedOpaque(dec *Decoder, n int) ([]byte, error) {
	return dec.DecodeFixedBytes(n)
}

// DecodeFixedOpaqueInto is DecodeFixedOpaque without the intermediate
// allocation: it fills dst (len(dst) octets) plus verifies pad.
func DecodeFixedOpaqueInto(dec *Decoder, dst []byte) error {
	return dec.DecodeFixedBytesInto(dst)
}
