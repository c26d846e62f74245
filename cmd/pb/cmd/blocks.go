package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/pb/internal/blocks"
	"github.com/tormodhaugland/pb/internal/config"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List available presets and task types",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger()
		defer logger.Sync()

		printLibrary := func(title, dir string) {
			lib := blocks.LoadLibrary(dir, logger)
			fmt.Printf("%s (%s):\n", title, dir)
			if lib.Len() == 0 {
				fmt.Println("  (none)")
				return
			}
			for _, name := range lib.Names() {
				fmt.Printf("  %s\n", name)
			}
		}

		printLibrary("Task types", cfg.TasktypesDir)
		fmt.Println()
		printLibrary("Presets", cfg.PresetsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}
