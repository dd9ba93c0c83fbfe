// Package client fetches snapshots from the agent team monitor.
//
// The monitor is reached over HTTP, either on a TCP address or through a
// Unix socket. A file-backed client replays a saved snapshot for offline
// use and tests.
package client

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
)

// StatePath is the snapshot resource on the monitor.
const StatePath = "/api/state"

// Client fetches one snapshot per call. Implementations must be safe for
// concurrent use; the engine may have several fetches in flight.
type Client interface {
	// Fetch returns the current snapshot, normalized. Failures are
	// *errors.Error values for which errors.IsPollFailure holds.
	Fetch(ctx context.Context) (*models.Snapshot, error)

	// Close releases idle connections.
	Close() error
}

// New picks an implementation from the endpoint scheme: file:// reads a
// snapshot from disk, http, https and unix talk to a running monitor.
// timeout bounds each request; requests are also bound by the context
// passed to Fetch.
func New(endpoint string, timeout time.Duration) (Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid endpoint").
			WithDetail("endpoint", endpoint)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return NewFileClient(u.Path), nil
	case "http", "https", "unix":
		return NewRemoteClient(endpoint, timeout)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported endpoint scheme: "+u.Scheme).
			WithDetail("endpoint", endpoint)
	}
}
