// Package mediaprobe extracts structural stream parameters (dimensions,
// profile, aspect ratio, frame rate, color metadata) from codec extradata or
// a short coded-data prefix, without invoking a decoder. Parsing is a pure
// function of the input bytes: nothing is cached, nothing is mutated, and
// every read is bounds-checked, so adversarial buffers can only produce an
// error, never a fault.
package mediaprobe

// ContainerShape hints at how the extradata bytes are framed. It is only
// consulted where the framing is ambiguous (AV1, and declining non-Annex-B
// H.264/H.265 records up front).
type ContainerShape uint8

const (
	// ShapeUnknown lets the prober sniff the framing from the bytes.
	ShapeUnknown ContainerShape = iota
	// ShapeAnnexB is a start-code delimited NAL unit stream.
	ShapeAnnexB
	// ShapeSizePrefixed is a raw stream of self-delimited units (AV1 OBUs).
	ShapeSizePrefixed
	// ShapeConfigRecord is a box-based configuration record (av1C).
	ShapeConfigRecord
)

// String returns the human-readable name of the container shape.
func (cs ContainerShape) String() string {
	switch cs {
	case ShapeAnnexB:
		return "ANNEXB"
	case ShapeSizePrefixed:
		return "SIZE_PREFIXED"
	case ShapeConfigRecord:
		return "CONFIG_RECORD"
	case ShapeUnknown:
	}
	return "UNKNOWN"
}
