package catalog

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	FileError       ErrorKind = "file"
	ParseError      ErrorKind = "parse"
	ValidationError ErrorKind = "validation"
	LookupError     ErrorKind = "lookup"
)

var (
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrUnknownBook       = errors.New("unknown book")
	ErrDuplicateBook     = errors.New("duplicate book")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrInvalidRange      = errors.New("invalid range")
)

// Error describes a failure to load, validate or look up a catalog. Path
// and Book name the catalog file and the book involved when known.
type Error struct {
	Kind    ErrorKind
	Path    string
	Book    string
	Message *string
	Err     error
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "catalog %s error", e.Kind)
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Book != "" {
		fmt.Fprintf(&b, " for book %q", e.Book)
	}
	b.WriteString(": ")
	if e.Message != nil {
		b.WriteString(*e.Message)
		if e.Err != nil {
			b.WriteString(" - ")
		}
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	// Parse errors already wrap their cause.
	if e.Cause != nil && !errors.Is(e.Err, e.Cause) {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the underlying cause, so
// errors.Is matches ErrInvalidCatalog as well as fs.ErrNotExist.
func (e *Error) Unwrap() []error {
	var errs []error
	for _, err := range []error{e.Err, e.Cause} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
