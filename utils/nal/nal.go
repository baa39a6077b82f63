// Package nal locates NAL units inside Annex-B extradata buffers.
package nal

import (
	"bytes"

	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits/pio"
)

// MinNaluSize is the minimum size of a Network Abstraction Layer Unit (NALU).
const MinNaluSize = 4

// startCodeLen is the length of the 4-byte Annex-B start code 00 00 00 01.
const startCodeLen = 4

// IsStartCode reports whether b begins with the 4-byte Annex-B start code.
func IsStartCode(b []byte) bool {
	return len(b) >= startCodeLen && pio.U32BE(b) == 1
}

// FirstUnit returns the body of the first NAL unit of an Annex-B buffer: the
// bytes between the leading 4-byte start code and either the next 4-byte
// start code or the end of the buffer. A buffer that does not begin with a
// start code (e.g. a box-based avcC/hvcC record) is declined with
// UnsupportedContainerError rather than misparsed.
func FirstUnit(b []byte) ([]byte, error) {
	if !IsStartCode(b) {
		return nil, utils.UnsupportedContainerError{}
	}
	for pos := startCodeLen; pos+startCodeLen <= len(b); pos++ {
		if pio.U32BE(b[pos:]) == 1 {
			if pos == startCodeLen {
				return nil, utils.TruncatedError{}
			}
			return b[startCodeLen:pos], nil
		}
	}
	if len(b) == startCodeLen {
		return nil, utils.TruncatedError{}
	}
	return b[startCodeLen:], nil
}

// Unescape removes emulation prevention bytes (00 00 03 -> 00 00), turning a
// NAL unit into its raw byte sequence payload before bit-level parsing.
func Unescape(nalu []byte) []byte {
	return bytes.ReplaceAll(nalu, []byte{0x0, 0x0, 0x3}, []byte{0x0, 0x0})
}
