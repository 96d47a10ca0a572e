package scraper

import "fmt"

// ValidationError reports a rejected input URL. The caller can correct it,
// so the API surfaces the reason verbatim with a 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// FetchError reports a failed outbound page fetch, either a transport
// failure or a non-2xx status from the listing site.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the transport failed before any response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch listing page: status %d", e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch listing page: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
