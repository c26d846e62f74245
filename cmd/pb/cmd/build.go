package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/tormodhaugland/pb/internal/blocks"
	"github.com/tormodhaugland/pb/internal/config"
	"github.com/tormodhaugland/pb/internal/prompt"
	"github.com/tormodhaugland/pb/internal/selection"
)

var (
	buildPreset      string
	buildTasktype    string
	buildInstruction string
	buildInclude     []string
	buildOut         string
	buildCopy        bool
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Assemble a prompt non-interactively",
	Long: `Assembles a prompt document without the TUI. By default every
allow-listed file under the directory is included; --include narrows the
selection to files matching the given globs (relative paths).

Preset and task-type names are fuzzy-matched:
  pb build -p json          # matches strict-json
  pb build -t refac .       # matches refactor`,
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
		if dir == "" {
			dir = config.LoadLastDir()
		}
		if dir == "" {
			return fmt.Errorf("no directory given and no remembered base directory")
		}

		tree, err := selection.Scan(dir, cfg.Extensions)
		if err != nil {
			return fmt.Errorf("scan %s: %w", dir, err)
		}

		req := prompt.Request{Root: tree.Root, Instruction: buildInstruction}

		for _, i := range tree.Leaves() {
			rel := tree.RelPath(i)
			if len(buildInclude) > 0 && !matchesAny(rel, buildInclude) {
				continue
			}
			req.Files = append(req.Files, rel)
		}

		if buildTasktype != "" {
			lib := blocks.LoadLibrary(cfg.TasktypesDir, logger)
			b, ok := lib.Match(buildTasktype)
			if !ok {
				return fmt.Errorf("no task type found matching: %s", buildTasktype)
			}
			req.IncludeTaskType = true
			req.TaskTypeName = b.Name
			req.TaskTypeBody = b.Body
		}
		if buildPreset != "" {
			lib := blocks.LoadLibrary(cfg.PresetsDir, logger)
			b, ok := lib.Match(buildPreset)
			if !ok {
				return fmt.Errorf("no preset found matching: %s", buildPreset)
			}
			req.IncludePreset = true
			req.PresetName = b.Name
			req.PresetBody = b.Body
		}

		doc := prompt.Assemble(req, logger)

		if buildOut != "" {
			if err := os.WriteFile(buildOut, []byte(doc.Text+"\n"), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		} else if !buildCopy {
			fmt.Println(doc.Text)
		}
		if buildCopy {
			if err := clipboard.WriteAll(doc.Text); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
		}

		tokens := prompt.EstimateTokens(doc.Text, cfg.TokensPerWord)
		pct := prompt.BudgetPercent(tokens, cfg.MaxTokens)
		diff := prompt.DifficultyFor(doc.FileCount)
		fmt.Fprintf(os.Stderr, "%d file(s), ~%d / %d tokens (%.2f%%), difficulty: %s\n",
			doc.FileCount, tokens, cfg.MaxTokens, pct, diff)
		for _, skipped := range doc.Skipped {
			fmt.Fprintf(os.Stderr, "skipped unreadable file: %s\n", skipped)
		}
		return nil
	},
}

func matchesAny(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, rel); ok {
			return true
		}
		// Also match against the basename so "-I '*.py'" works at any depth.
		if ok, _ := filepath.Match(g, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

func init() {
	buildCmd.Flags().StringVarP(&buildPreset, "preset", "p", "", "preset block to append")
	buildCmd.Flags().StringVarP(&buildTasktype, "tasktype", "t", "", "task-type block to prepend")
	buildCmd.Flags().StringVarP(&buildInstruction, "instruction", "i", "", "task instruction text")
	buildCmd.Flags().StringArrayVarP(&buildInclude, "include", "I", nil, "only include files matching glob (repeatable)")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "write document to file instead of stdout")
	buildCmd.Flags().BoolVarP(&buildCopy, "copy", "c", false, "copy document to clipboard")
	rootCmd.AddCommand(buildCmd)
}
