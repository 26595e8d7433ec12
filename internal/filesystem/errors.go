package filesystem

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

// Op names the handle operation that produced an error.
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpAppend Op = "append"
)

// Kind classifies a handle error.
type Kind int

const (
	KindIO Kind = iota
	KindNotFound
	KindDecode
	KindEncode
	KindStructuralMismatch
)

// Sentinels for errors.Is. Each one also matches the closest containerd
// errdefs class, so errdefs.IsNotFound and friends work on handle errors.
var (
	ErrNotFound           = fmt.Errorf("file not found: %w", errdefs.ErrNotFound)
	ErrDecode             = fmt.Errorf("decode failed: %w", errdefs.ErrDataLoss)
	ErrEncode             = fmt.Errorf("encode failed: %w", errdefs.ErrInvalidArgument)
	ErrStructuralMismatch = fmt.Errorf("structural mismatch: %w", errdefs.ErrFailedPrecondition)
	ErrIO                 = fmt.Errorf("io failed: %w", errdefs.ErrUnknown)
)

// String returns the stable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindDecode:
		return "DECODE_ERROR"
	case KindEncode:
		return "ENCODE_ERROR"
	case KindStructuralMismatch:
		return "STRUCTURAL_MISMATCH"
	default:
		return "IO_ERROR"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindDecode:
		return ErrDecode
	case KindEncode:
		return ErrEncode
	case KindStructuralMismatch:
		return ErrStructuralMismatch
	default:
		return ErrIO
	}
}

// Error is returned by every handle operation.
type Error struct {
	Op   Op
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{e.Kind.sentinel(), e.Err}
}

// NewError builds a handle error of the given kind.
func NewError(op Op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// KindOf reports the kind of a handle error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
