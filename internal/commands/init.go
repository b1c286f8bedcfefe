package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/acertijo-dev/balanza/internal/config"
	"github.com/acertijo-dev/balanza/internal/orchestrator"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a base directory for watching",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir)
		},
	}

	return cmd
}

// runInit writes a default balanza.yaml and creates the output
// subdirectory in every existing client folder.
func runInit(dir string) error {
	cfg := config.Default()

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	roots, err := orchestrator.Roots(dir, cfg.Watch.ExcludedFolders)
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := os.MkdirAll(filepath.Join(root, cfg.Output.Dir), 0o755); err != nil {
			return fmt.Errorf("creating output dir in %s: %w", root, err)
		}
	}

	fmt.Printf("Initialized %s (%d watch folders)\n", dir, len(roots))
	return nil
}
