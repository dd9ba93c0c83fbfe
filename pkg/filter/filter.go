// Package filter narrows a snapshot's teams by name using gitignore-style
// glob patterns.
package filter

import (
	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/moby/patternmatcher"
)

// Filter selects teams by name. A nil *Filter admits every team.
type Filter struct {
	include *patternmatcher.PatternMatcher
	exclude *patternmatcher.PatternMatcher
}

// New compiles include and exclude patterns. An empty include list admits
// all names; exclude is applied after include.
func New(include, exclude []string) (*Filter, error) {
	f := &Filter{}

	if len(include) > 0 {
		pm, err := patternmatcher.New(include)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid include pattern").
				WithDetail("patterns", include)
		}
		f.include = pm
	}

	if len(exclude) > 0 {
		pm, err := patternmatcher.New(exclude)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid exclude pattern").
				WithDetail("patterns", exclude)
		}
		f.exclude = pm
	}

	return f, nil
}

// Allow reports whether a team name passes the filter.
func (f *Filter) Allow(name string) bool {
	if f == nil {
		return true
	}
	if f.include != nil && !matches(f.include, name) {
		return false
	}
	if f.exclude != nil && matches(f.exclude, name) {
		return false
	}
	return true
}

// Teams returns the teams that pass, preserving order. The input slice is
// never modified.
func (f *Filter) Teams(teams []models.Team) []models.Team {
	if f == nil || (f.include == nil && f.exclude == nil) {
		return teams
	}
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if f.Allow(t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// Apply filters the snapshot's teams in place.
func (f *Filter) Apply(snap *models.Snapshot) {
	if snap == nil {
		return
	}
	snap.Teams = f.Teams(snap.Teams)
}

func matches(pm *patternmatcher.PatternMatcher, name string) bool {
	ok, err := pm.MatchesOrParentMatches(name)
	return err == nil && ok
}
