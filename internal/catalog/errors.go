package catalog

import (
	"errors"
	"fmt"
)

// ErrRunActive is returned by the coordinator when a trigger arrives while
// a run token is held. It is a control signal, not a failure.
var ErrRunActive = errors.New("a crawl run is already active")

// FetchError reports a transport failure or non-2xx status for one URL.
// The walker aborts on it without retrying; records collected before the
// failure remain valid.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a document whose expected structure is absent. It is
// not isolated per item: the walker aborts the run, same as a FetchError.
type ParseError struct {
	URL     string
	Missing string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: missing %s", e.URL, e.Missing)
}
