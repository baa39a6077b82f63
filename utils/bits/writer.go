package bits

// Writer builds a bit string MSB first. It backs the synthetic header
// builders used in tests and has no role in parsing.
type Writer struct {
	data   []byte
	bitPos int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{
		data:   nil,
		bitPos: 0,
	}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(bit uint) {
	if w.bitPos&7 == 0 {
		w.data = append(w.data, 0)
	}
	if bit != 0 {
		w.data[w.bitPos>>3] |= 0x80 >> (w.bitPos & 7) //nolint:mnd // MSB-first bit offset
	}
	w.bitPos++
}

// WriteBits appends the low n bits of v, MSB first.
func (w *Writer) WriteBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(uint(v>>i) & 1)
	}
}

// WriteUE appends an unsigned Exp-Golomb coded value (ue(v)).
func (w *Writer) WriteUE(v uint) {
	code := uint64(v) + 1
	n := 0
	for c := code; c > 1; c >>= 1 {
		n++
	}
	w.WriteBits(0, n)
	w.WriteBits(code, n+1)
}

// WriteSE appends a signed Exp-Golomb coded value (se(v)).
func (w *Writer) WriteSE(v int) {
	if v > 0 {
		w.WriteUE(uint(2*v - 1)) //nolint:mnd // positive mapping of se(v)
	} else {
		w.WriteUE(uint(-2 * v)) //nolint:mnd // negative mapping of se(v)
	}
}

// Bytes returns the written bits padded with zeros to a byte boundary.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.bitPos
}
