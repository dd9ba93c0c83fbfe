package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/grovetools/teamwatch/pkg/render/term"
	"github.com/grovetools/teamwatch/tui/theme"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"
)

// NewSnapshotCmd creates the `snapshot` command
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one snapshot and print it",
		Long: `Fetch the current state once and print it the way the terminal dashboard
would, followed by a one-line summary. With --json the normalized snapshot
document is printed instead.`,
		RunE: runSnapshot,
	}
	addEndpointFlag(cmd)
	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}
	defer d.client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), d.timeout)
	defer cancel()

	snap, err := d.client.Fetch(ctx)
	if err != nil {
		return err
	}
	d.filter.Apply(snap)

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	var tuiCfg config.TUIConfig
	if err := d.cfg.UnmarshalExtension("tui", &tuiCfg); err != nil {
		return err
	}

	r := term.New(d.localizer, theme.New(tuiCfg.Theme), theme.IconSet(tuiCfg.Icons))
	return writeSnapshot(out, snap, r, d.localizer, time.Now(), outputWidth(out))
}

// outputWidth is the terminal width of out, or 0 when it is not a terminal.
func outputWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !xterm.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := xterm.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// writeSnapshot prints the processes and teams sections and a summary.
// A positive width truncates long lines.
func writeSnapshot(w io.Writer, snap *models.Snapshot, r render.Renderer, loc *render.Localizer, now time.Time, width int) error {
	labels := loc.Table().Labels

	processes, err := r.Processes(snap.Processes, now)
	if err != nil {
		return err
	}
	teams, err := r.Teams(snap.Teams, now)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, labels.ProcessesTitle+"\n", len(snap.Processes))
	b.WriteString(string(processes))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, labels.TeamsTitle+"\n", len(snap.Teams))
	b.WriteString(string(teams))

	body := b.String()
	if width > 0 {
		body = lipgloss.NewStyle().MaxWidth(width).Render(body)
	}
	if _, err := fmt.Fprintln(w, body); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, summary(snap, now))
	return err
}

// summary reads like "3 teams, 7 agents, and 2 processes, updated 4 seconds ago".
func summary(snap *models.Snapshot, now time.Time) string {
	agents := 0
	for _, team := range snap.Teams {
		agents += len(team.Members)
	}

	counts := english.OxfordWordSeries([]string{
		english.Plural(len(snap.Teams), "team", ""),
		english.Plural(agents, "agent", ""),
		english.Plural(len(snap.Processes), "process", "processes"),
	}, "and")

	if snap.UpdatedAt.IsZero() {
		return counts
	}
	return counts + ", updated " + humanize.RelTime(snap.UpdatedAt, now, "ago", "from now")
}
