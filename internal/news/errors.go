package news

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when the Naver client ID or secret is not configured
	ErrMissingCredentials = errors.New("naver API credentials are not configured")

	// ErrAuth is returned when the news API rejects the credentials
	ErrAuth = errors.New("news API authentication failed")

	// ErrRateLimited is returned when the daily quota or request rate is exceeded
	ErrRateLimited = errors.New("news API rate limit exceeded")

	// ErrBadQuery is returned when the news API rejects the request parameters
	ErrBadQuery = errors.New("news API rejected the query")

	// ErrTransport covers network failures, unexpected statuses and unreadable bodies
	ErrTransport = errors.New("news API transport error")
)

// SearchError describes a failed news search. Kind is one of the sentinel
// errors above, so callers can use errors.Is(err, ErrRateLimited).
type SearchError struct {
	Kind   error
	Status int
	Query  string
	Err    error
}

func (e *SearchError) Error() string {
	msg := e.Kind.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Query != "" {
		msg = fmt.Sprintf("%s for query %q", msg, e.Query)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *SearchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Hint returns a short, actionable suggestion for the failure kind.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "set NAVER_CLIENT_ID and NAVER_CLIENT_SECRET"
	case errors.Is(err, ErrAuth):
		return "check the Naver client ID/secret at https://developers.naver.com"
	case errors.Is(err, ErrRateLimited):
		return "the Naver quota is exhausted; wait a minute and try again"
	case errors.Is(err, ErrBadQuery):
		return "change the search keyword"
	case errors.Is(err, ErrTransport):
		return "check the network connection"
	default:
		return ""
	}
}
