package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vango-dev/webcell/internal/config"
	"github.com/vango-dev/webcell/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds state shared by the subcommands.
type cli struct {
	fs        afero.Fs
	configDir string
	logLevel  string
}

// load reads the configuration and installs the default logger.
func (c *cli) load() (*config.Config, error) {
	cfg, err := config.Load(c.fs, c.configDir)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))
	return cfg, nil
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webcell",
		Short: "Render and preview webcell documents",
		Long: `webcell renders HTML documents through the webcell virtual DOM.

  • render normalizes markup and can publish it to S3
  • serve runs a live preview with a websocket mutation stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&c.configDir, "config-dir", "C", ".", "Directory containing webcell.yaml")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		renderCmd(c),
		serveCmd(c),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	c := &cli{fs: afero.NewOsFs()}
	if err := newRootCmd(c).Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
