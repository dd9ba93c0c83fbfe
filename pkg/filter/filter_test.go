package filter

import (
	"testing"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		team    string
		want    bool
	}{
		{"no patterns", nil, nil, "anything", true},
		{"include glob match", []string{"store*"}, nil, "storefront", true},
		{"include glob miss", []string{"store*"}, nil, "backoffice", false},
		{"exclude wins", []string{"*"}, []string{"*-scratch"}, "ops-scratch", false},
		{"exclude only", nil, []string{"tmp-*"}, "storefront", true},
		{"negated include", []string{"*", "!legacy"}, nil, "legacy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Allow(tt.team))
		})
	}
}

func TestNilFilterAdmitsAll(t *testing.T) {
	var f *Filter
	assert.True(t, f.Allow("x"))

	teams := []models.Team{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, teams, f.Teams(teams))
}

func TestApply(t *testing.T) {
	f, err := New([]string{"a*"}, nil)
	require.NoError(t, err)

	snap := &models.Snapshot{Teams: []models.Team{{Name: "alpha"}, {Name: "beta"}, {Name: "apex"}}}
	f.Apply(snap)

	require.Len(t, snap.Teams, 2)
	assert.Equal(t, "alpha", snap.Teams[0].Name)
	assert.Equal(t, "apex", snap.Teams[1].Name)

	f.Apply(nil)
}

func TestInvalidPattern(t *testing.T) {
	_, err := New([]string{"["}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}
