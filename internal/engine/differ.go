package engine

import (
	"bytes"
	"encoding/json"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
)

// Changes says which collection regions of a snapshot need rebuilding.
type Changes struct {
	Processes bool
	Teams     bool

	processes []byte
	teams     []byte
}

// Differ compares each snapshot with the last one that was rendered.
// Collections are compared by their canonical JSON encoding, so a change
// anywhere in a collection marks the whole region dirty.
type Differ struct {
	primed    bool
	processes []byte
	teams     []byte
}

// NewDiffer returns a differ with no previous snapshot.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff computes the dirty regions of cur. It does not change the
// previous snapshot; call Commit once the regions have been written.
func (d *Differ) Diff(cur *models.Snapshot) (Changes, error) {
	procs, err := json.Marshal(cur.Processes)
	if err != nil {
		return Changes{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode processes")
	}
	teams, err := json.Marshal(cur.Teams)
	if err != nil {
		return Changes{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode teams")
	}

	return Changes{
		Processes: !d.primed || !bytes.Equal(d.processes, procs),
		Teams:     !d.primed || !bytes.Equal(d.teams, teams),
		processes: procs,
		teams:     teams,
	}, nil
}

// Commit makes the snapshot behind c the previous one.
func (d *Differ) Commit(c Changes) {
	d.primed = true
	d.processes = c.processes
	d.teams = c.teams
}

// Reset forgets the previous snapshot so every region is dirty again.
func (d *Differ) Reset() {
	d.primed = false
	d.processes = nil
	d.teams = nil
}

// Primed reports whether a snapshot has been committed.
func (d *Differ) Primed() bool {
	return d.primed
}
