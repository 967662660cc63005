package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for extraction stages that found nothing to extract.
var (
	ErrTitleNotFound = errors.New("title not found")
	ErrDateNotFound  = errors.New("publication date not found")
	ErrBodyNotFound  = errors.New("article body not found")
)

// Error kinds as recorded in run reports.
const (
	KindNetwork       = "network"
	KindMarkup        = "markup"
	KindTitleNotFound = "title_not_found"
	KindDateNotFound  = "date_not_found"
	KindBodyNotFound  = "body_not_found"
	KindWrite         = "write"
	KindUnknown       = "unknown"
)

// NetworkError wraps a failed listing or article fetch.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MarkupError reports a selector that does not compile. It is a configuration bug.
type MarkupError struct {
	Site     string
	Field    string
	Selector string
	Err      error
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("site %q %s=%q: %v", e.Site, e.Field, e.Selector, e.Err)
}

func (e *MarkupError) Unwrap() error { return e.Err }

// WriteError wraps a filesystem failure while persisting an article.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var (
		netErr    *NetworkError
		markupErr *MarkupError
		writeErr  *WriteError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &markupErr):
		return KindMarkup
	case errors.As(err, &writeErr):
		return KindWrite
	case errors.Is(err, ErrTitleNotFound):
		return KindTitleNotFound
	case errors.Is(err, ErrDateNotFound):
		return KindDateNotFound
	case errors.Is(err, ErrBodyNotFound):
		return KindBodyNotFound
	default:
		return KindUnknown
	}
}
