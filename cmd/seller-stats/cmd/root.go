// Package cmd implements the CLI commands for seller-stats.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wondersell/seller-stats/internal/api/client"
	"github.com/wondersell/seller-stats/internal/config"
	"github.com/wondersell/seller-stats/internal/engine"
	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/notify"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	"github.com/wondersell/seller-stats/pkg/logger"
	"github.com/wondersell/seller-stats/pkg/stats"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "seller-stats",
		Short: "Marketplace category statistics",
		Long: "seller-stats computes sales statistics for marketplace category crawls:\n" +
			"turnover, 30-day run-rate, top goods, price distribution and market\n" +
			"concentration. It also compares category list snapshots.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (YAML); built-in defaults when empty")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().
		String("server", "", "compute on a running seller-stats API (e.g. http://localhost:8080) instead of locally")

	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format")))
	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix("SELLER_STATS")
	viper.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = viper.GetString("config")
	}
}

// loadConfig reads the config file, if any, and applies flag and
// environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if level := viper.GetString("log_level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Logging.Format = format
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	l := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(l)
	return l
}

func newReportService(cfg *config.Config, log *slog.Logger) *report.Service {
	binning := []stats.BinningOption{stats.WithBuckets(cfg.Stats.Buckets)}
	if len(cfg.Stats.BucketWidths) > 0 {
		binning = append(binning, stats.WithBucketWidths(cfg.Stats.BucketWidths))
	}

	return report.NewService(
		report.WithLogger(logger.Component(log, "report")),
		report.WithTopCount(cfg.Stats.TopGoods),
		report.WithHHIField(cfg.Stats.HHIField),
		report.WithRunRate(cfg.Stats.MinDays, cfg.Stats.WindowDays),
		report.WithBinning(binning...),
	)
}

// newExporter uploads to S3 when a bucket is configured and writes to the
// export directory otherwise.
func newExporter(ctx context.Context, cfg *config.Config, log *slog.Logger) (*export.Exporter, error) {
	var putter export.ObjectPutter
	if s3cfg := cfg.Export.S3; s3cfg.Bucket != "" {
		p, err := export.NewS3Putter(ctx, export.S3Options{
			Bucket:       s3cfg.Bucket,
			Region:       s3cfg.Region,
			Endpoint:     s3cfg.Endpoint,
			Prefix:       s3cfg.Prefix,
			UsePathStyle: s3cfg.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("creating S3 exporter: %w", err)
		}
		putter = p
	} else {
		putter = export.NewLocalPutter(cfg.Export.Dir)
	}

	return export.NewExporter(putter, export.WithLogger(logger.Component(log, "export"))), nil
}

func newScrapinghub(cfg *config.Config, log *slog.Logger) (*loader.Scrapinghub, error) {
	sh := cfg.Scrapinghub
	return loader.NewScrapinghub(sh.APIKey,
		loader.WithBaseURL(sh.BaseURL),
		loader.WithHTTPClient(&http.Client{Timeout: sh.Timeout}),
		loader.WithRateLimit(sh.RateLimit.PerSecond, sh.RateLimit.Burst),
		loader.WithClientLogger(logger.Component(log, "scrapinghub")),
	)
}

func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	d := cfg.Notifications.Discord
	if !d.Enabled {
		return notify.NewNoOpNotifier(logger.Component(log, "notify"))
	}
	return notify.NewDiscordNotifier(d.WebhookURL,
		notify.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
		notify.WithMaxEntries(d.MaxEntries),
	)
}

// newEngine wires the configured category watches.
func newEngine(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	exporter *export.Exporter,
) (*engine.Engine, error) {
	if len(cfg.Watch.Projects) == 0 {
		return nil, errors.New("no watch projects configured")
	}

	sh, err := newScrapinghub(cfg, log)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		if exporter, err = newExporter(ctx, cfg, log); err != nil {
			return nil, err
		}
	}

	watches := make([]engine.Watch, 0, len(cfg.Watch.Projects))
	for _, p := range cfg.Watch.Projects {
		watches = append(watches, engine.Watch{
			Project: p.Project,
			Tag:     p.Tag,
			Kind:    catdiff.Kind(p.Kind),
			Export:  p.Export,
			Notify:  p.Notify,
		})
	}

	return engine.NewEngine(sh, newReportService(cfg, log), exporter, newNotifier(cfg, log), watches,
		engine.WithLogger(logger.Component(log, "engine")),
		engine.WithStaggerOffset(cfg.Watch.Stagger),
	), nil
}

// remoteClient returns an API client when --server (or SELLER_STATS_SERVER)
// is set.
func remoteClient() (*client.Client, bool) {
	server := viper.GetString("server")
	if server == "" {
		return nil, false
	}
	return client.New(server, client.WithHTTPClient(&http.Client{Timeout: 2 * time.Minute})), true
}
