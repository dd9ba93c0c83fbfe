// Package render defines the page regions the dashboard writes into and
// the contract every fragment renderer satisfies. Renderers are pure: they
// turn entities and derived values into fragments and never touch the
// network or timers.
package render

import (
	"time"

	"github.com/grovetools/teamwatch/pkg/models"
)

// Region identifies an independently replaceable area of the page.
type Region string

const (
	RegionConnection   Region = "connection-status"
	RegionLastUpdate   Region = "last-update"
	RegionProcessCount Region = "process-count"
	RegionTeamCount    Region = "team-count"
	RegionProcesses    Region = "processes-container"
	RegionTeams        Region = "teams-container"
)

// Regions returns every region in page order.
func Regions() []Region {
	return []Region{
		RegionConnection,
		RegionLastUpdate,
		RegionProcessCount,
		RegionTeamCount,
		RegionProcesses,
		RegionTeams,
	}
}

// Fragment is renderer output for one region. Its encoding depends on the
// renderer: escaped HTML for the web host, styled text for the terminal.
type Fragment string

// Page is the display surface. SetRegion replaces the region's content
// wholesale.
type Page interface {
	SetRegion(region Region, fragment Fragment)
}

// Renderer produces fragments for every region.
type Renderer interface {
	Processes(procs []models.ProcessInfo, now time.Time) (Fragment, error)
	Teams(teams []models.Team, now time.Time) (Fragment, error)
	LastUpdate(at time.Time) (Fragment, error)
	Count(n int) (Fragment, error)
	Connection(connected bool) (Fragment, error)
}

// PageFunc adapts a function to the Page interface.
type PageFunc func(region Region, fragment Fragment)

// SetRegion calls f.
func (f PageFunc) SetRegion(region Region, fragment Fragment) {
	f(region, fragment)
}
