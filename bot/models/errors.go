package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError means a required setting is missing or empty.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s is required", e.Field)
	}
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

// UpstreamFetchError is a non-success response (or transport failure) from a
// dependency. Status is zero when no response was received.
type UpstreamFetchError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamFetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s request failed: %s", e.Service, e.Body)
	}
	return fmt.Sprintf("%s responded with HTTP %d: %s", e.Service, e.Status, e.Body)
}

// AmbiguousResolutionError means a directory search for Handle did not
// return exactly one member.
type AmbiguousResolutionError struct {
	Handle string
	Count  int
}

func (e *AmbiguousResolutionError) Error() string {
	return fmt.Sprintf("expected exactly 1 member matching %q, found %d", e.Handle, e.Count)
}

type MalformedResponseError struct {
	Service string
	Reason  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Service, e.Reason)
}

// Kind returns a short label for err, used for metrics and log fields.
func Kind(err error) string {
	var (
		configErr    *ConfigurationError
		upstreamErr  *UpstreamFetchError
		ambiguousErr *AmbiguousResolutionError
		malformedErr *MalformedResponseError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &configErr):
		return "configuration"
	case errors.As(err, &upstreamErr):
		return "upstream"
	case errors.As(err, &ambiguousErr):
		return "ambiguous"
	case errors.As(err, &malformedErr):
		return "malformed"
	default:
		return "internal"
	}
}
