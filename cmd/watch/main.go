package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"airplane-watch/sleepwatch/internal/common"
	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/logging"
	"airplane-watch/sleepwatch/internal/providers"
	"airplane-watch/sleepwatch/internal/services"
	"airplane-watch/sleepwatch/internal/severity"
	"airplane-watch/sleepwatch/internal/workers"
)

type options struct {
	backend    string
	interval   time.Duration
	timeout    time.Duration
	region     string
	days       int
	staleAfter time.Duration
	asJSON     bool
	verbose    bool
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sleepwatch-watch",
		Short: "Follow the telemetry feeds of a running sleepwatch server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				logging.SetLogger(zap.NewNop().Sugar())
				return nil
			}
			return logging.Init("development")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.backend, "backend", "http://localhost:8080", "Base URL of the sleepwatch server")
	flags.DurationVar(&opts.interval, "interval", workers.DefaultPollInterval, "Poll interval per feed")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")
	flags.StringVar(&opts.region, "region", constants.GlobalRegion, "Region of the risk trend")
	flags.IntVar(&opts.days, "days", constants.DefaultHistoryDays, "Days of risk trend to request")
	flags.DurationVar(&opts.staleAfter, "stale-after", severity.DefaultStaleAfter, "Age after which data counts as stale")
	flags.BoolVar(&opts.asJSON, "json", false, "Print the composed view as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log poller activity to stderr")

	rootCmd.AddCommand(snapshotCommand(opts))
	return rootCmd
}

func snapshotCommand(opts *options) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Poll every feed once, print the dashboard and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), opts, wait)
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 15*time.Second, "How long to wait for every feed to answer")
	return cmd
}

func newDashboard(opts *options) (*workers.Feeds, *services.DashboardService) {
	client := providers.NewBackendClient(opts.backend, opts.timeout)
	if opts.verbose {
		client.Client.Transport = common.NewDumpTransport(nil)
	}
	feeds := workers.NewFeeds(client, workers.FeedsConfig{
		Interval:      opts.interval,
		FetchTimeout:  opts.timeout,
		HistoryRegion: opts.region,
		HistoryDays:   opts.days,
	})
	monitor := workers.NewFeedMonitor(feeds.Handles(), opts.staleAfter, nil)
	return feeds, services.NewDashboardService(feeds, monitor, opts.staleAfter)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runWatch redraws the dashboard every time a feed publishes.
func runWatch(parent context.Context, opts *options) error {
	ctx, stop := signalContext(parent)
	defer stop()

	feeds, dash := newDashboard(opts)
	changes, release := feeds.Changes()
	defer release()

	feeds.Start(ctx)
	defer feeds.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if err := emit(os.Stdout, dash.Compose(), opts.asJSON); err != nil {
				return err
			}
		}
	}
}

// runSnapshot prints once every feed has answered, or when wait runs out.
func runSnapshot(parent context.Context, opts *options, wait time.Duration) error {
	ctx, stop := signalContext(parent)
	defer stop()

	feeds, dash := newDashboard(opts)
	changes, release := feeds.Changes()
	defer release()

	feeds.Start(ctx)
	defer feeds.Stop()

	deadline := time.NewTimer(wait)
	defer deadline.Stop()

	for !allSettled(feeds.Statuses()) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			fmt.Fprintln(os.Stderr, "some feeds did not answer in time")
			return emit(os.Stdout, dash.Compose(), opts.asJSON)
		case <-changes:
		case <-time.After(100 * time.Millisecond):
		}
	}
	return emit(os.Stdout, dash.Compose(), opts.asJSON)
}

// allSettled reports whether every feed has either published or failed
// at least once.
func allSettled(statuses []workers.FeedStatus) bool {
	for _, st := range statuses {
		if !st.Ready && st.LastError == "" {
			return false
		}
	}
	return true
}

func emit(out io.Writer, view services.DashboardView, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return render(out, view)
}
