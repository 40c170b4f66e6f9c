package pdf2docx

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdf2docx/source"
)

// InputError reports an input that cannot be read as a PDF: a missing
// file, a bad header or an unreadable structure
type InputError struct {
	Path string // empty for in-memory input
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("reading input: %v", e.Err)
	}
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// PasswordError reports an encrypted document opened without a password or
// with the wrong one. Err is source.ErrEncrypted or source.ErrBadPassword.
type PasswordError struct {
	Err error
}

func (e *PasswordError) Error() string {
	return fmt.Sprintf("opening encrypted document: %v", e.Err)
}

func (e *PasswordError) Unwrap() error { return e.Err }

// PageRangeError reports a requested page index outside [0, PageCount)
type PageRangeError struct {
	Page      int
	PageCount int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("page index %d out of range [0, %d)", e.Page, e.PageCount)
}

// ResourceDecodeError reports a page resource that could not be decoded.
// It never aborts a conversion; the resource is replaced by a placeholder
// and the error is carried by a Warning.
type ResourceDecodeError struct {
	Page     int
	Resource string
	Err      error
}

func (e *ResourceDecodeError) Error() string {
	return fmt.Sprintf("page %d: decoding %s: %v", e.Page, e.Resource, e.Err)
}

func (e *ResourceDecodeError) Unwrap() error { return e.Err }

// PackagingError reports a generated package that failed validation
type PackagingError struct {
	Err error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging document: %v", e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// classifyOpenError maps the source sentinels to the typed errors
func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, source.ErrEncrypted), errors.Is(err, source.ErrBadPassword):
		return &PasswordError{Err: err}
	default:
		return &InputError{Path: path, Err: err}
	}
}
