package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newsblog/internal/config"
	"newsblog/internal/logger"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newsblog",
		Short: "newsblog turns trending Korean news into finished blog posts.",
		Long: `newsblog searches Naver news, picks the most newsworthy article,
asks Gemini for a structured blog post, fills in photos from Unsplash or
Pixabay, and writes the result as JSON, Markdown and HTML.

Examples:
  # Generate a post about a keyword
  newsblog generate 금리

  # Generate from a news section with a progress view
  newsblog generate --category-id 101 --tui

  # List ranked candidates without generating
  newsblog news 반도체

  # Serve the HTTP API
  newsblog serve --port 8080`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = loaded

			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			} else if cfg.App.Debug {
				level = "debug"
			}
			logger.Configure(level, cfg.Logging.Format, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.newsblog.yaml or $HOME/.newsblog.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewNewsCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
