package cmd

import (
	stderrors "errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/internal/engine"
	"github.com/grovetools/teamwatch/logging"
	"github.com/grovetools/teamwatch/pkg/render/term"
	"github.com/grovetools/teamwatch/tui"
	dash "github.com/grovetools/teamwatch/tui/dashboard"
	"github.com/grovetools/teamwatch/tui/keymap"
	"github.com/grovetools/teamwatch/tui/theme"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the `tui` command
func NewTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the dashboard in the terminal",
		Long: `Show the dashboard in the terminal. Polling pauses while the terminal
window loses focus, if the terminal reports focus events.`,
		RunE: runTUI,
	}
	cmd.Flags().String("theme", "", "Theme: kanagawa, gruvbox, terminal")
	addEndpointFlag(cmd)
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}
	defer d.client.Close()

	var tuiCfg config.TUIConfig
	if err := d.cfg.UnmarshalExtension("tui", &tuiCfg); err != nil {
		return err
	}
	if name, _ := cmd.Flags().GetString("theme"); name != "" {
		tuiCfg.Theme = name
	}

	// Logs would tear the alt screen; only the file sink stays live.
	logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(os.Stderr)

	tui.InitializeTUI()
	th := theme.New(tuiCfg.Theme)

	page := dash.NewPage()
	defer page.Close()
	eng, err := engine.New(engine.Options{
		Client:       d.client,
		Page:         page,
		Renderer:     term.New(d.localizer, th, theme.IconSet(tuiCfg.Icons)),
		Interval:     d.interval,
		Timeout:      d.timeout,
		AllowOverlap: d.allowOverlap,
		Filter:       d.filter,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if d.localePath != "" {
		startLocaleWatcher(ctx, d, func() {
			eng.Invalidate()
			eng.PollNow()
		})
	}

	model := dash.New(eng, keymap.Load(&tuiCfg), th, d.localizer)
	prog := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	page.Attach(prog)

	if _, err := prog.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
