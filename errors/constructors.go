package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *Error {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// LocaleNotFound creates an unknown locale error
func LocaleNotFound(name string) *Error {
	return New(ErrCodeLocaleNotFound, fmt.Sprintf("locale '%s' not found", name)).
		WithDetail("locale", name)
}

// PollTransport wraps a network level failure while fetching a snapshot.
func PollTransport(url string, err error) *Error {
	return Wrap(err, ErrCodePollTransport, "snapshot request failed").
		WithDetail("url", url)
}

// PollStatus reports a non-success HTTP status from the snapshot endpoint.
func PollStatus(url string, status int) *Error {
	return New(ErrCodePollStatus, fmt.Sprintf("snapshot endpoint returned status %d", status)).
		WithDetail("url", url).
		WithDetail("status", status)
}

// PollDecode wraps a failure to decode the snapshot body.
func PollDecode(url string, err error) *Error {
	return Wrap(err, ErrCodePollDecode, "failed to decode snapshot").
		WithDetail("url", url)
}

// RenderFailed wraps a failure while rendering a page region.
func RenderFailed(region string, err error) *Error {
	return Wrap(err, ErrCodeRenderFailed, fmt.Sprintf("failed to render region %s", region)).
		WithDetail("region", region)
}
