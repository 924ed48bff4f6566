package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/milb-data/internal/config"
	"github.com/pfrederiksen/milb-data/internal/db"
	"github.com/pfrederiksen/milb-data/internal/httpx"
	"github.com/pfrederiksen/milb-data/internal/logger"
	"github.com/pfrederiksen/milb-data/internal/scraper"
	"github.com/pfrederiksen/milb-data/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitPartial = 2
)

// ErrPartial is returned when a collector finished but some items failed
var ErrPartial = errors.New("some items failed")

var (
	flagDataDir  string
	flagDBPath   string
	flagEnvFile  string
	flagHeaders  string
	flagSleep    time.Duration
	flagAPISleep time.Duration
	flagFormat   string
	flagRefresh  bool
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milb-data",
		Short: "Collect Minor League Baseball team and host-city data",
		Long: `A CLI tool that scrapes the Minor League Baseball teams page and each
host city's Wikipedia article, enriches the cities with Census ACS and FRED
data and stores everything in a SQLite database.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory for archived pages (default from MILB_DATA_DIR)")
	pf.StringVar(&flagDBPath, "db", "", "SQLite database path (default <data-dir>/milb.db)")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Environment file with API keys")
	pf.StringVar(&flagHeaders, "headers", "", "File of 'key: value' request headers for Wikipedia")
	pf.DurationVar(&flagSleep, "sleep", config.DefaultSleep, "Pause between Wikipedia requests")
	pf.DurationVar(&flagAPISleep, "api-sleep", config.DefaultAPISleep, "Pause between Census, geocoder and FRED requests")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagRefresh, "refresh", false, "Download pages again even when archived")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newTeamsCmd(),
		newCitiesCmd(),
		newCensusCmd(),
		newFREDCmd(),
		newListCmd(),
		newInfoboxCmd(),
	)
	return cmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if _, err := outputFormat(); err != nil {
		return err
	}
	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	return nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.SetDataDir(flagDataDir)
	}
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("sleep") {
		cfg.Sleep = flagSleep
	}
	if flags.Changed("api-sleep") {
		cfg.APISleep = flagAPISleep
	}

	if flagVerbose {
		logger.Debug("Configuration loaded", logger.Fields{
			"data_dir":  cfg.DataDir,
			"db":        cfg.DBPath,
			"sleep":     cfg.Sleep.String(),
			"api_sleep": cfg.APISleep.String(),
			"timeout":   cfg.Timeout.String(),
			"acs_year":  cfg.ACSYear,
		})
	}
	return cfg, nil
}

// app bundles what a collector command needs
type app struct {
	cfg   config.Config
	db    *db.DB
	store *storage.Storage
	// api is paced by cfg.APISleep and shared by the Census, geocoder and
	// FRED clients
	api *httpx.Client
	// wiki is paced by cfg.Sleep
	wiki *httpx.Client
}

// newClient builds an HTTP client with the configured user agent, timeout
// and proxy that allows one request per interval
func newClient(cfg config.Config, interval time.Duration, extra ...httpx.Option) *httpx.Client {
	opts := []httpx.Option{
		httpx.WithUserAgent(cfg.UserAgent),
		httpx.WithTimeout(cfg.Timeout),
		httpx.WithProxy(cfg.Proxy),
		httpx.WithInterval(interval),
	}
	return httpx.New(append(opts, extra...)...)
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var wikiOpts []httpx.Option
	if flagHeaders != "" {
		headers, err := config.LoadHeaders(flagHeaders)
		if err != nil {
			return nil, err
		}
		wikiOpts = append(wikiOpts, httpx.WithHeaders(headers))
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		db:    database,
		store: store,
		api:   newClient(cfg, cfg.APISleep),
		wiki:  newClient(cfg, cfg.Sleep, wikiOpts...),
	}, nil
}

func (a *app) scraper() *scraper.Scraper {
	return scraper.New(a.wiki, a.store)
}

func (a *app) geocodeCachePath() string {
	return filepath.Join(a.store.Dir(), "geocode_cache.json")
}

func (a *app) Close() error {
	return a.db.Close()
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrPartial):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return ExitPartial
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
}
