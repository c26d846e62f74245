package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/pb/internal/config"
	"github.com/tormodhaugland/pb/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick [dir]",
	Short: "Run the builder and print the accepted document to stdout",
	Long: `Like 'pb tui', but the interface renders on stderr and the document
accepted with enter is printed to stdout, so it can be piped:

  pb pick > prompt.txt
  pb pick | llm`,
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
		text, err := tui.RunPick(cfg, logger, dir)
		if err != nil {
			return err
		}
		if text != "" {
			fmt.Println(text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
