package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/config"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tradelog",
	Short: "Trade journal and performance metrics",
	Long: `Tradelog keeps a journal of closed trades and derives performance metrics from it.

It provides tools for:
  - Computing risk/reward, Sharpe-like, volatility and Calmar ratios
  - Importing tab-separated broker ledger exports into SQLite or PostgreSQL
  - Validating ledger exports before import
  - Serving the journal and metrics over HTTP
  - Requesting trade proposals from a remote generator

Configuration is read from --config (YAML or JSON), then .env and TRADELOG_*
environment variables, then command line flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

var (
	cfgFile     string
	envFile     string
	logLevel    string
	dbPath      string
	userFlag    string
	datasetFlag string

	cfg    *config.Config
	logger *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&envFile, "env", "", "env file to load (default .env when present)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB")
	pf.StringVarP(&userFlag, "user", "u", "", "journal user id")
	pf.StringVar(&datasetFlag, "dataset", "", "journal dataset name")
}

// setup loads configuration and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	if err := cfg.ApplyEnv(files...); err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if dbPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = dbPath
	}
	if userFlag != "" {
		cfg.Journal.UserID = userFlag
	}
	if datasetFlag != "" {
		cfg.Journal.Dataset = datasetFlag
	}

	logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logger != nil {
		logger.Sync()
	}
}

func openStore() (journal.Store, error) {
	s, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return s, nil
}

var errNoUser = errors.New("user id required (--user or TRADELOG_USER_ID)")

func currentUser() (string, error) {
	if cfg.Journal.UserID == "" {
		return "", errNoUser
	}
	return journal.ParseUserID(cfg.Journal.UserID)
}
