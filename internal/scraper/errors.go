package scraper

import (
	"errors"
	"fmt"

	"go-jobradar/internal/models"
)

// FetchError means one (keyword, source) search could not complete.
type FetchError struct {
	Platform models.Platform
	Keyword  string
	Page     int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch %q page %d: %v", e.Platform, e.Keyword, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SessionError means a shared resource, typically the browser session, is no
// longer usable and the run cannot continue.
type SessionError struct {
	Platform models.Platform
	Err      error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s session unusable: %v", e.Platform, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// IsSessionFatal reports whether err should abort the whole run.
func IsSessionFatal(err error) bool {
	var se *SessionError
	return errors.As(err, &se)
}

// Wrap tags an adapter failure with its search coordinates. Fatal failures
// become SessionError, everything else FetchError.
func Wrap(p models.Platform, keyword string, page int, err error, fatal bool) error {
	if fatal {
		return &SessionError{Platform: p, Err: err}
	}
	return &FetchError{Platform: p, Keyword: keyword, Page: page, Err: err}
}
