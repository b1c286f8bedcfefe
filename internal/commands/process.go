package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/acertijo-dev/balanza/internal/orchestrator"
)

func newProcessCommand() *cobra.Command {
	var policyFlag string

	cmd := &cobra.Command{
		Use:   "process [directory]",
		Short: "Process all pending trial balances once and exit",
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

			return runProcess(absDir, policyFlag)
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", "", "duplicate-period policy: interactive, reject or replace (overrides config)")

	return cmd
}

func runProcess(dir, policyFlag string) error {
	cfg, policy, err := loadSetup(dir, policyFlag)
	if err != nil {
		return err
	}

	roots, err := orchestrator.Roots(dir, cfg.Watch.ExcludedFolders)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "balanza",
	})

	orch := orchestrator.New(orchestrator.Params{
		Roots:     roots,
		Policy:    policy,
		Confirmer: newStdinConfirmer(),
		Attempts:  cfg.Retry.Attempts,
		Delay:     cfg.Retry.Delay(),
		OutputDir: cfg.Output.Dir,
		Artifact:  cfg.Output.Artifact,
		Logger:    logger,
	})

	return orch.Sweep(context.Background())
}
