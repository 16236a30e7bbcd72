package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cf-tutor/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cf-tutor",
	Short: "Codeforces problem extractor and AI tutor",
	Long:  "Scrapes Codeforces problem statements and their editorial hints, solutions and tutorials into a local collection, and serves an LLM tutor over it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		switch cmd.Name() {
		case "serve", "interactive", "extract", "list", "show":
			return cfg.Validate(cmd.Name())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
