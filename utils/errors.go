package utils

// TryAgainError represents an error indicating that the operation should be
// retried with later data: the frame was structurally valid but carried no
// dimension information (VP8/VP9 inter frames, VP9 show-existing frames).
type TryAgainError struct {
}

// Error returns the error message for TryAgainError.
func (TryAgainError) Error() string {
	return "Try again"
}

// UnimplementedError represents an error indicating that a structurally valid
// header uses a feature this prober does not parse.
type UnimplementedError struct {
}

// Error returns the error message for UnimplementedError.
func (UnimplementedError) Error() string {
	return "Not implemented"
}

// NoCodecDataError represents an error indicating that no codec data was provided.
type NoCodecDataError struct {
}

// Error returns the error message for NoCodecDataError.
func (NoCodecDataError) Error() string {
	return "No codec data"
}

// TruncatedError represents an error indicating that the buffer ended before
// a field the parser needed to read next.
type TruncatedError struct {
}

// Error returns the error message for TruncatedError.
func (TruncatedError) Error() string {
	return "Truncated data"
}

// BadSyncError represents an error indicating that a fixed marker (VP8 sync
// bytes, VP9 frame marker or sync code) did not match.
type BadSyncError struct {
}

// Error returns the error message for BadSyncError.
func (BadSyncError) Error() string {
	return "Bad sync pattern"
}

// InvalidDataError represents an error indicating structural corruption that
// is not a marker mismatch (impossible counts, crop larger than the frame).
type InvalidDataError struct {
}

// Error returns the error message for InvalidDataError.
func (InvalidDataError) Error() string {
	return "Invalid data"
}

// UnsupportedContainerError represents an error indicating that the extradata
// framing is not one this prober understands, e.g. a box-based avcC/hvcC
// record where an Annex-B stream is required.
type UnsupportedContainerError struct {
}

// Error returns the error message for UnsupportedContainerError.
func (UnsupportedContainerError) Error() string {
	return "Unsupported container shape"
}

// NoSequenceHeaderError represents an error indicating that no AV1 sequence
// header OBU was found within the scanned prefix.
type NoSequenceHeaderError struct {
}

// Error returns the error message for NoSequenceHeaderError.
func (NoSequenceHeaderError) Error() string {
	return "No sequence header found"
}
