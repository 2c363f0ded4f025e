package wire

// Code classifies a wire-format failure for callers that route errors by
// category rather than by message.
type Code int

const (
	// CodeInvalidArgument marks input that violates the wire contract. A
	// batch that fails to decode must be discarded whole, never partially
	// applied.
	CodeInvalidArgument Code = iota + 1
)

// String returns the code's wire-protocol name.
func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// DecodeError is a wire-format failure with a stable code and message.
// Errors returned by this package wrap one of the exported sentinel values,
// so callers can match with errors.Is and still read positional detail from
// the full message.
type DecodeError struct {
	Code Code
	Msg  string
}

// Error implements the error interface.
func (e *DecodeError) Error() string { return e.Msg }

// Sentinel decode failures. Returned errors wrap exactly one of these.
var (
	// ErrMismatchedRunLengths is returned when the numeric runs of a coded
	// batch do not all cover the same number of samples.
	ErrMismatchedRunLengths = &DecodeError{Code: CodeInvalidArgument, Msg: "wire: mismatched numeric run lengths"}

	// ErrNonFiniteScale is returned when a numeric run carries a NaN or
	// infinite scale.
	ErrNonFiniteScale = &DecodeError{Code: CodeInvalidArgument, Msg: "wire: non-finite scale"}

	// ErrBadHeader is returned when binary data does not begin with the
	// expected format header or declares unknown channels.
	ErrBadHeader = &DecodeError{Code: CodeInvalidArgument, Msg: "wire: bad header"}

	// ErrTruncated is returned when binary data ends before the declared
	// channel contents.
	ErrTruncated = &DecodeError{Code: CodeInvalidArgument, Msg: "wire: truncated data"}
)
