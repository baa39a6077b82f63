// Package bits implements a bounds-checked, MSB-first bit reader over a byte
// slice. Every read is a checked operation: reading past the end of the slice
// (or past an explicit byte cap) fails with utils.TruncatedError instead of
// touching out-of-range memory, which is what makes the codec parsers safe on
// truncated or hostile input.
package bits

import (
	"github.com/ugparu/mediaprobe/utils"
)

// maxGolombLeadingZeros bounds Exp-Golomb decoding; longer prefixes cannot
// encode a value that fits the parsers' fields and indicate corrupt data.
const maxGolombLeadingZeros = 32

// Reader reads bits from a borrowed byte slice. It never copies or mutates
// the underlying data.
type Reader struct {
	data   []byte
	bitPos int
	bitLen int
}

// NewReader returns a Reader over the whole of data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:   data,
		bitPos: 0,
		bitLen: len(data) * 8, //nolint:mnd // bits per byte
	}
}

// NewLimitedReader returns a Reader capped at maxBytes of data. The cap
// bounds worst-case scan cost on hostile input.
func NewLimitedReader(data []byte, maxBytes int) *Reader {
	if maxBytes > len(data) {
		maxBytes = len(data)
	}
	if maxBytes < 0 {
		maxBytes = 0
	}
	return &Reader{
		data:   data,
		bitPos: 0,
		bitLen: maxBytes * 8, //nolint:mnd // bits per byte
	}
}

// BitsRemaining returns the number of unread bits left before the cap.
func (r *Reader) BitsRemaining() int {
	return r.bitLen - r.bitPos
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint, error) {
	if r.bitPos >= r.bitLen {
		return 0, utils.TruncatedError{}
	}
	bit := uint(r.data[r.bitPos>>3]>>(7-(r.bitPos&7))) & 1 //nolint:mnd // MSB-first bit offset
	r.bitPos++
	return bit, nil
}

// ReadFlag reads a single bit as a boolean.
func (r *Reader) ReadFlag() (bool, error) {
	bit, err := r.ReadBit()
	return bit == 1, err
}

// ReadBits reads n bits (0 <= n <= 32), MSB first.
func (r *Reader) ReadBits(n int) (uint, error) {
	if n < 0 || n > 32 {
		return 0, utils.InvalidDataError{}
	}
	v, err := r.ReadBits64(n)
	return uint(v), err
}

// ReadBits32 reads n bits (0 <= n <= 32) into a uint32.
func (r *Reader) ReadBits32(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, utils.InvalidDataError{}
	}
	v, err := r.ReadBits64(n)
	return uint32(v), err
}

// ReadBits64 reads n bits (0 <= n <= 64) into a uint64.
func (r *Reader) ReadBits64(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, utils.InvalidDataError{}
	}
	if r.bitLen-r.bitPos < n {
		r.bitPos = r.bitLen
		return 0, utils.TruncatedError{}
	}
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		v |= uint64(r.data[r.bitPos>>3]>>(7-(r.bitPos&7))) & 1 //nolint:mnd // MSB-first bit offset
		r.bitPos++
	}
	return v, nil
}

// SkipBits discards n bits.
func (r *Reader) SkipBits(n int) error {
	if n < 0 {
		return utils.InvalidDataError{}
	}
	if r.bitLen-r.bitPos < n {
		r.bitPos = r.bitLen
		return utils.TruncatedError{}
	}
	r.bitPos += n
	return nil
}

// ReadExponentialGolombCode reads an unsigned Exp-Golomb coded value (ue(v)).
func (r *Reader) ReadExponentialGolombCode() (uint, error) {
	zeros := 0
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			break
		}
		zeros++
		if zeros > maxGolombLeadingZeros {
			return 0, utils.InvalidDataError{}
		}
	}
	suffix, err := r.ReadBits64(zeros)
	if err != nil {
		return 0, err
	}
	return uint(1<<zeros - 1 + suffix), nil
}

// ReadSE reads a signed Exp-Golomb coded value (se(v)).
func (r *Reader) ReadSE() (int, error) {
	ue, err := r.ReadExponentialGolombCode()
	if err != nil {
		return 0, err
	}
	if ue&1 == 1 {
		return int(ue+1) / 2, nil //nolint:mnd // positive mapping of se(v)
	}
	return -int(ue / 2), nil //nolint:mnd // negative mapping of se(v)
}
