package client

import (
	"errors"
	"fmt"
)

// Sentinel kinds for client errors. Callers match them with errors.Is.
var (
	ErrEncode    = errors.New("encode request failed")
	ErrTransport = errors.New("transport failed")
	ErrStatus    = errors.New("unexpected status")
	ErrDecode    = errors.New("decode response failed")
)

// StatusError carries a non-2xx response. The body is kept verbatim.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// Unwrap lets errors.Is(err, ErrStatus) match.
func (e *StatusError) Unwrap() error { return ErrStatus }

// WrapKind annotates err with the operation name and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
