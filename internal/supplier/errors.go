package supplier

import "fmt"

// FetchError reports a failed file or listing retrieval after the client's
// retry budget is exhausted. The caller skips the file and continues.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ResolutionError reports that a store's branch name could not be extracted
// from the supplier's directory listing. Non-fatal: the caller continues the
// run with placeholder store metadata.
type ResolutionError struct {
	StoreID string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolving store %s: %v", e.StoreID, e.Err)
	}
	return fmt.Sprintf("resolving store %s: no matching entry in directory listing", e.StoreID)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
