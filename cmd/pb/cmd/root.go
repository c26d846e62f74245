package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/pb/internal/config"
	"github.com/tormodhaugland/pb/internal/logging"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "pb",
	Short: "Prompt builder - assemble code files into an LLM prompt",
	Long: `pb assembles a prompt document for a language model from files you
pick out of a directory tree, plus optional preset and task-type text
blocks, with a token-count estimate and difficulty indicator.

Running 'pb' without arguments launches the interactive builder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/pb/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
}

// newLogger builds the file-backed logger shared by all commands. The TUI
// owns the terminal, so even CLI commands keep their logs out of it.
func newLogger() *zap.Logger {
	logger, err := logging.Setup(config.LogFile(), debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging unavailable: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
