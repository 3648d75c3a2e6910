package compression

// NoOpCodec stores data verbatim. It lets callers treat "no compression"
// uniformly and serves as the baseline for ratio comparisons.
type NoOpCodec struct{}

func (NoOpCodec) Encoding() Encoding { return EncodingNone }

func (NoOpCodec) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst, nil
}

func (NoOpCodec) Decompress(src []byte) ([]byte, error) {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst, nil
}
