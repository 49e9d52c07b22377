package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradeflow/internal/advisor"
	"tradeflow/internal/auth"
	"tradeflow/internal/config"
	"tradeflow/internal/logging"
	"tradeflow/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Store     store.DataStore
	Auth      *auth.Manager
	Analyzer  *advisor.Analyzer
}

// UserID returns the active storage partition for this invocation.
func (a *App) UserID() string {
	return a.Auth.UserID()
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    logger,
		Auth:      auth.NewManager(configDir, logger),
	}

	// Initialize SQLite store
	dbPath := filepath.Join(configDir, "journal.db")
	dataStore, err := store.NewSQLiteStoreWithDefault(dbPath, cfg.Journal.DefaultInitialBalance)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	// Initialize AI mentor if an OpenAI API key is available
	var llm advisor.LLMClient
	if cfg.Credentials.OpenAI.APIKey != "" {
		llm = advisor.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Journal.AIModel)
		logger.Debug().Str("model", cfg.Journal.AIModel).Msg("OpenAI LLM client initialized")
	}
	app.Analyzer = advisor.NewAnalyzer(llm, logger)

	rootCmd := &cobra.Command{
		Use:   "tradeflow",
		Short: "TradeFlow - trading journal and risk calculator",
		Long: `TradeFlow is a trading journal for forex, gold, indices, and crypto.

It records planned trades with their confluences, derives risk metrics and
position sizes, tracks the account equity curve, and can request AI mentor
feedback on a setup.

Use 'tradeflow help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradeflow)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addDashboardCommands(rootCmd, app)
	addRiskCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("TradeFlow v%s\n", Version)
				output.Println("Build date: " + BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.ConfigDir})
			} else {
				output.Println(app.ConfigDir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal Configuration")
	output.Printf("  Default Risk %%:    %.1f%%\n", cfg.Journal.DefaultRiskPercent)
	output.Printf("  Initial Balance:   %s\n", FormatCurrency(cfg.Journal.DefaultInitialBalance))
	output.Printf("  Strict Stops:      %v\n", cfg.Journal.StrictStopValidation)
	output.Printf("  AI Model:          %s\n", cfg.Journal.AIModel)
	output.Println()

	output.Bold("UI Configuration")
	output.Printf("  Color:             %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Date Format:       %s\n", cfg.UI.DateFormat)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:             %s\n", cfg.Logging.Level)
	output.Printf("  Console:           %v\n", cfg.Logging.Console)
	output.Printf("  File:              %v\n", cfg.Logging.File)
	output.Println()

	output.Bold("Credentials")
	if cfg.Credentials.OpenAI.APIKey != "" {
		output.Printf("  OpenAI API Key:    configured\n")
	} else {
		output.Printf("  OpenAI API Key:    not set (AI analysis disabled)\n")
	}
}
