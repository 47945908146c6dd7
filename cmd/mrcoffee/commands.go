package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/mrcoffee/internal/adapter/driven/gitlab"
	"github.com/ericfisherdev/mrcoffee/internal/adapter/driven/transport"
	"github.com/ericfisherdev/mrcoffee/internal/adapter/driven/webhook"
	"github.com/ericfisherdev/mrcoffee/internal/adapter/driving/preview"
	"github.com/ericfisherdev/mrcoffee/internal/application"
	"github.com/ericfisherdev/mrcoffee/internal/config"
)

const version = "0.3.0"

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	interval   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "mrcoffee",
		Short:         "Relay open merge requests to chat webhooks",
		Long:          "mrcoffee fetches open GitLab merge requests and posts a summary to Slack and/or Teams incoming webhooks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelay(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file (default "+config.DefaultConfigFile+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	root.Flags().DurationVar(&opts.interval, "interval", 0, "repeat the relay on this interval until interrupted (overrides config)")

	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func newPreviewCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Fetch merge requests and print the webhook payloads without posting them",
		Long: "preview fetches open merge requests and prints what would be posted.\n" +
			"--format json prints the payload of every configured channel; --format html renders the Teams card as a page.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, opts, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", preview.FormatJSON, "output format: json or html")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print mrcoffee version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mrcoffee version %s\n", version)
		},
	}
}

// loadConfig loads configuration, applies flag overrides and installs the
// default logger.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, &usageError{err: err}
	}

	if cmd.Flags().Changed("log-level") {
		if _, err := config.ParseLogLevel(opts.logLevel); err != nil {
			return nil, &usageError{err: err}
		}
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("interval") {
		if opts.interval < 0 {
			return nil, &usageError{err: fmt.Errorf("--interval must not be negative, got %s", opts.interval)}
		}
		cfg.Interval = opts.interval
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	slog.Info("config loaded",
		"source", cfg.Source(),
		"slack", cfg.Publish.Slack != nil,
		"teams", cfg.Publish.Teams != nil,
		"interval", cfg.Interval,
	)

	return cfg, nil
}

// services groups the application services built from the driven adapters.
type services struct {
	fetcher  *application.FetchService
	notifier *application.NotifyService
	relay    *application.RelayService
}

func wire() services {
	logger := slog.Default()
	fetcher := application.NewFetchService(gitlab.NewClient(transport.NewCachingClient(logger)))
	notifier := application.NewNotifyService(webhook.NewClient(transport.NewClient(logger)))
	return services{
		fetcher:  fetcher,
		notifier: notifier,
		relay:    application.NewRelayService(fetcher, notifier),
	}
}

func runRelay(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := wire()

	if cfg.Interval > 0 {
		slog.Info("mrcoffee started", "interval", cfg.Interval)
		svc.relay.Start(ctx, cfg.Source(), cfg.Delivery(), cfg.Interval)
		return nil
	}

	summary, err := svc.relay.RunOnce(ctx, cfg.Source(), cfg.Delivery())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d merge request(s), delivered to %d channel(s)\n", summary.Found, summary.Delivered)
	return nil
}

func runPreview(cmd *cobra.Command, opts *options, format string) error {
	if format != preview.FormatJSON && format != preview.FormatHTML {
		return &usageError{err: fmt.Errorf("unknown preview format %q: use json or html", format)}
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := wire()

	mrs, err := svc.fetcher.FetchOpen(ctx, cfg.Source())
	if err != nil {
		return err
	}

	dst := cfg.Delivery()
	if format == preview.FormatHTML {
		return preview.HTML(cmd.OutOrStdout(), application.NewTeamsMessage(dst.ResolveSalutation(), mrs))
	}

	payloads := svc.notifier.Payloads(mrs, dst)
	if len(payloads) == 0 {
		slog.Warn("no channels configured, nothing would be posted", "merge_requests", len(mrs))
	}

	return preview.JSON(cmd.OutOrStdout(), payloads)
}
