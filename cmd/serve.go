package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/teamwatch/internal/server"
	"github.com/grovetools/teamwatch/internal/watch"
	"github.com/grovetools/teamwatch/logging"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the `serve` command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Long: `Serve the dashboard page. Every open browser tab gets its own poll loop
which pushes changed regions over a websocket. Polling pauses while the tab is
hidden.`,
		Example: `# listen on the configured address
teamwatch serve
# listen on a unix socket and poll a local producer
teamwatch serve --listen unix:///tmp/teamwatch.sock --endpoint http://localhost:8080`,
		RunE: runServe,
	}
	cmd.Flags().String("listen", "", "Listen address, host:port or unix:///path.sock (default from config)")
	addEndpointFlag(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := loadDashboard(cmd)
	if err != nil {
		return err
	}
	defer d.client.Close()

	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = d.cfg.Listen
	}

	srv, err := server.New(server.Options{
		Client:       d.client,
		Localizer:    d.localizer,
		Interval:     d.interval,
		Timeout:      d.timeout,
		AllowOverlap: d.allowOverlap,
		Filter:       d.filter,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if d.localePath != "" {
		startLocaleWatcher(ctx, d, srv.Invalidate)
	}

	return srv.Run(ctx, listen)
}

// startLocaleWatcher hot-reloads the locale file until ctx ends. A watcher
// that cannot start is logged and skipped.
func startLocaleWatcher(ctx context.Context, d *dashboard, onReload func()) {
	w, err := watch.NewLocaleWatcher(d.localePath, d.localizer, watch.DefaultDebounce, onReload)
	if err != nil {
		logging.NewLogger("cmd").WithError(err).Warn("Locale hot reload disabled")
		return
	}
	go w.Start(ctx)
}
