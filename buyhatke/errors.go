package buyhatke

import (
	"errors"
	"fmt"
)

// The closed set of failure kinds a comparison can end with. Anything that is
// not one of the four sentinels below is a generic ScraperError.
var (
	ErrUnsupportedMarketplace = errors.New("marketplace is not supported by current scraper")
	ErrUpstreamNotFound       = errors.New("upstream resource not found")
	ErrBotDetected            = errors.New("upstream blocked request (possible bot detection)")
	ErrUpstreamTimeout        = errors.New("upstream request timed out")
)

// ScraperError is the catch-all failure kind: transport errors other than
// timeout, malformed upstream payloads, missing product identifiers and
// unexpected status codes. Status is non-zero when an upstream HTTP status
// triggered the failure.
type ScraperError struct {
	Msg    string
	Status int
	Err    error
}

func (e *ScraperError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d", e.Msg, e.Status)
	}
	return e.Msg
}

func (e *ScraperError) Unwrap() error { return e.Err }
