package thumbhash

import "fmt"

// ErrorKind categorizes a DecodeError.
type ErrorKind string

const (
	// KindTruncatedInput: the buffer is shorter than its header requires.
	KindTruncatedInput ErrorKind = "truncated_input"
	// KindInvalidEncoding: the text form is not valid base64.
	KindInvalidEncoding ErrorKind = "invalid_encoding"
)

// DecodeError reports why a hash could not be decoded. Painters are
// expected to fall back to a flat color.
type DecodeError struct {
	Kind  ErrorKind
	Need  int // bytes required by the header, for KindTruncatedInput
	Got   int // bytes available
	Cause error
}

// Sentinels for errors.Is; matching compares Kind only.
var (
	ErrTruncatedInput  = &DecodeError{Kind: KindTruncatedInput}
	ErrInvalidEncoding = &DecodeError{Kind: KindInvalidEncoding}
)

func (e *DecodeError) Error() string {
	switch {
	case e.Kind == KindTruncatedInput && e.Need > 0:
		return fmt.Sprintf("thumbhash: truncated input: need %d bytes, got %d", e.Need, e.Got)
	case e.Cause != nil:
		return fmt.Sprintf("thumbhash: %s: %v", e.Kind, e.Cause)
	}
	return "thumbhash: " + string(e.Kind)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is matches any DecodeError of the same kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}

func truncated(need, got int) error {
	return &DecodeError{Kind: KindTruncatedInput, Need: need, Got: got}
}
