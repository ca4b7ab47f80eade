package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comparekart/catalog-service/config"
	"github.com/comparekart/catalog-service/internal/client"
	"github.com/comparekart/catalog-service/internal/database"
	"github.com/comparekart/catalog-service/internal/httpx"
	"github.com/comparekart/catalog-service/internal/kvstore"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "comparekart",
	Short: "CompareKart CLI - browse the catalog and compare products",
	Long: `A terminal client for the CompareKart catalog service. Search the
product catalog, inspect vendor offers, fill comparison slots, and render
side-by-side comparison documents. Also drives dataset seeding and vendor
feed syncs against a local database.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	// seed and reindex talk to the database directly
	if cmd.Name() == "seed" || cmd.Name() == "reindex" {
		if cfg == nil {
			return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
		}
		if err := initDatabase(cmd); err != nil {
			return fmt.Errorf("database initialization failed: %w", err)
		}
		logger.Info().Msg("Database connected")
	}

	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil {
		if parsed, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsed
		}
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	l := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &l
}

func initDatabase(cmd *cobra.Command) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	return database.Connect(
		cmd.Context(),
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	)
}

// apiClient builds the REST client the browse commands use
func apiClient() *client.Client {
	baseURL := "http://localhost:8080"
	var httpClient *httpx.Client
	if cfg != nil {
		if cfg.Client.BaseURL != "" {
			baseURL = cfg.Client.BaseURL
		}
		httpClient = httpx.NewClient(httpx.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			MaxRetries:        cfg.RateLimit.MaxRetries,
			InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
		})
	} else {
		httpClient = httpx.NewClientDefault()
	}
	return client.New(baseURL, httpClient)
}

// stateStore opens the on-disk CLI state (removed comparison ids)
func stateStore() (*kvstore.SQLite, error) {
	dataDir := ""
	if cfg != nil {
		dataDir = cfg.Client.StatePath
	}
	return kvstore.NewSQLite(dataDir)
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
