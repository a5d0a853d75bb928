package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
	"github.com/k12coteacher/coteacher/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "coteacher",
	Short: "Special education co-teaching assistant",
	Long:  "Coteacher extracts student profiles from IEPs and psychological reports, generates lesson modifications, and answers questions about students in a chat loop.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; explicit env vars still apply.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COTEACHER_DB env var)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then COTEACHER_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database for a command run.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newLogger builds the command logger honoring --verbose.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode := "production"
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		mode = "development"
	}
	return logger.New(mode)
}

// newProvider builds the configured LLM provider with event logging wired
// to the store.
func newProvider(ctx context.Context, s *store.Store) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, cfg, s.LLMEvents())
}
