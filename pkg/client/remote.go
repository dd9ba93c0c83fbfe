package client

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/version"
)

// socketHost is the placeholder host used for requests over a Unix
// socket; the transport ignores it and dials the socket.
const socketHost = "http://unix"

// maxSnapshotBytes bounds a single response body.
const maxSnapshotBytes = 32 << 20

// RemoteClient implements Client against the monitor's HTTP API.
type RemoteClient struct {
	httpClient *http.Client
	stateURL   string
	socketPath string
}

// NewRemoteClient creates a client for endpoint, which is either an
// http(s) base URL or unix:///path/to/socket.
func NewRemoteClient(endpoint string, timeout time.Duration) (*RemoteClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid endpoint").
			WithDetail("endpoint", endpoint)
	}

	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: false,
		MaxIdleConns:      10,
		IdleConnTimeout:   90 * time.Second,
	}

	c := &RemoteClient{}
	switch u.Scheme {
	case "unix":
		if u.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unix endpoint needs a socket path").
				WithDetail("endpoint", endpoint)
		}
		c.socketPath = u.Path
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", c.socketPath)
		}
		c.stateURL = socketHost + StatePath
	case "http", "https":
		if u.Host == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "endpoint needs a host").
				WithDetail("endpoint", endpoint)
		}
		c.stateURL = strings.TrimSuffix(endpoint, "/") + StatePath
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported endpoint scheme: "+u.Scheme).
			WithDetail("endpoint", endpoint)
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	return c, nil
}

// URL returns the snapshot URL requested by Fetch.
func (c *RemoteClient) URL() string {
	return c.stateURL
}

// Fetch issues GET /api/state and decodes the body.
func (c *RemoteClient) Fetch(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.stateURL, nil)
	if err != nil {
		return nil, errors.PollTransport(c.stateURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.PollTransport(c.stateURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.PollStatus(c.stateURL, resp.StatusCode)
	}

	return decodeSnapshot(c.stateURL, io.LimitReader(resp.Body, maxSnapshotBytes))
}

// Close releases idle connections.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func decodeSnapshot(source string, r io.Reader) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.PollDecode(source, err)
	}
	snap.Normalize()
	return &snap, nil
}
