package client

import (
	"context"
	"os"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
)

// FileClient implements Client by reading a saved snapshot document. The
// file is re-read on every Fetch so edits show up on the next poll.
type FileClient struct {
	path string
}

// NewFileClient creates a client for a snapshot JSON file.
func NewFileClient(path string) *FileClient {
	return &FileClient{path: path}
}

// Fetch reads and decodes the file.
func (c *FileClient) Fetch(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.PollTransport(c.path, err)
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, errors.PollTransport(c.path, err)
	}
	defer f.Close()
	return decodeSnapshot(c.path, f)
}

// Close is a no-op.
func (c *FileClient) Close() error {
	return nil
}
