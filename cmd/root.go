package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/metrics"
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/output"
	"github.com/chrisdamba/regionrank/internal/recommender"
	"github.com/chrisdamba/regionrank/internal/repositories"
	"github.com/chrisdamba/regionrank/internal/repositories/cache"
	"github.com/chrisdamba/regionrank/internal/repositories/file"
	"github.com/chrisdamba/regionrank/internal/repositories/postgres"
	"github.com/chrisdamba/regionrank/internal/scoring"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "regionrank",
	Short: "Ranks commercial regions for a user",
	Long: `regionrank scores regions on their intrinsic commercial quality, matches them
against a user's demographics, spending, income and preferred industries, and
returns a deterministic ranked list with human-readable reasons.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.regionrank.yaml)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("catalog-source", models.CatalogSourceFile, "Region catalog source (file, postgres)")
	flags.String("catalog-path", "regions.json", "Region catalog file (json or yaml)")
	flags.String("combine-mode", models.CombineMultiplicative, "Score combination (multiplicative, average)")
	flags.Int("workers", 0, "Scoring goroutines (0 uses GOMAXPROCS)")
	flags.String("output-format", models.OutputFormatConsole, "Output format (console, json, csv, parquet, kafka, postgres)")
	flags.String("output-path", "", "Base directory for file outputs")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.String("metrics-file", "", "Write prometheus metrics to this textfile on exit")

	bindings := map[string]string{
		"log_level":         "log-level",
		"catalog.source":    "catalog-source",
		"catalog.path":      "catalog-path",
		"combine_mode":      "combine-mode",
		"workers":           "workers",
		"output.format":     "output-format",
		"output.path":       "output-path",
		"kafka.broker_list": "kafka-broker-list",
		"metrics_file":      "metrics-file",
	}
	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}

func configFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".regionrank.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg     *models.Config
	log     logger.Logger
	metrics *metrics.Recorder
	closers []func()
}

func newApp() (*app, error) {
	cfg, err := models.LoadConfig(viper.GetViper(), configFile())
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		log.Info("using config file", logger.String("path", used))
	}

	return &app{cfg: cfg, log: log, metrics: metrics.New()}, nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order and flushes metrics and logs.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Error("failed to write metrics file", logger.String("path", a.cfg.MetricsFile), logger.Error(err))
		}
	}
	_ = a.log.Sync()
}

func (a *app) catalog(ctx context.Context) (repositories.RegionReader, error) {
	var source repositories.RegionReader
	switch a.cfg.Catalog.Source {
	case models.CatalogSourcePostgres:
		pool, err := postgres.NewPool(ctx, a.cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		a.onClose(pool.Close)
		source = postgres.NewRegionRepository(pool)
	default:
		source = file.NewRegionRepository(a.cfg.Catalog.Path)
	}
	return cache.New(source, a.cfg.Catalog.CacheTTL), nil
}

func (a *app) service(ctx context.Context) (*recommender.Service, error) {
	engine, err := scoring.NewRecommender(recommender.ScoringConfig(a.cfg))
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	a.log.Info("scoring engine ready",
		logger.String("combine_mode", string(engine.Mode())),
		logger.String("catalog_source", a.cfg.Catalog.Source),
	)
	return recommender.NewService(catalog, engine, a.log, recommender.WithMetrics(a.metrics)), nil
}

func (a *app) destination(ctx context.Context) (output.Destination, error) {
	dest, err := output.NewDestination(ctx, a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s output: %w", a.cfg.Output.Format, err)
	}
	a.onClose(func() {
		if err := dest.Close(); err != nil {
			a.log.Error("failed to close output", logger.String("format", a.cfg.Output.Format), logger.Error(err))
		}
	})
	return dest, nil
}

// publish writes one response and counts failures per format.
func (a *app) publish(dest output.Destination, engine *scoring.Recommender, resp *recommender.Response) error {
	records := output.NewRecords(resp, engine.TierDescription)
	if err := output.Publish(dest, a.cfg.Output.Topic, records); err != nil {
		a.metrics.ObserveOutputError(a.cfg.Output.Format)
		return err
	}
	return nil
}

// users loads batch input from path, or from postgres when path is empty.
func (a *app) users(ctx context.Context, path string) ([]*models.UserProfile, error) {
	if path != "" {
		return file.LoadUsers(path)
	}
	repo, err := a.userRepository(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx)
}

func (a *app) userRepository(ctx context.Context) (repositories.UserRepository, error) {
	if a.cfg.Catalog.Source != models.CatalogSourcePostgres {
		return nil, errors.New("--users-file is required unless catalog.source is postgres")
	}
	pool, err := postgres.NewPool(ctx, a.cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	a.onClose(pool.Close)
	return postgres.NewUserRepository(pool), nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
