package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/pb/internal/config"
	"github.com/tormodhaugland/pb/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [dir]",
	Short: "Launch the interactive prompt builder",
	Long: `Launches the interactive builder: a file tree with tri-state
checkboxes on the left, task-type/preset selectors, instruction editor,
and a live document preview on the right.

The optional dir argument overrides the remembered base directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger()
		defer logger.Sync()

		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return tui.Run(cfg, logger, dir)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
