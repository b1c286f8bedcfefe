package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/acertijo-dev/balanza/internal/config"
	"github.com/acertijo-dev/balanza/internal/orchestrator"
	"github.com/acertijo-dev/balanza/internal/reconcile"
	"github.com/acertijo-dev/balanza/internal/watcher"
)

func newRunCommand() *cobra.Command {
	var policyFlag string

	cmd := &cobra.Command{
		Use:   "run [directory]",
		Short: "Watch client folders and consolidate incoming trial balances",
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

			return runWatch(absDir, policyFlag)
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", "", "duplicate-period policy: interactive, reject or replace (overrides config)")

	return cmd
}

func runWatch(dir, policyFlag string) error {
	cfg, policy, err := loadSetup(dir, policyFlag)
	if err != nil {
		return err
	}

	roots, err := orchestrator.Roots(dir, cfg.Watch.ExcludedFolders)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("no watch folders under %s", dir)
	}

	source, err := watcher.NewFSSource(roots)
	if err != nil {
		return err
	}
	defer source.Close()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "balanza",
	})

	orch := orchestrator.New(orchestrator.Params{
		Roots:     roots,
		Source:    source,
		Policy:    policy,
		Confirmer: newStdinConfirmer(),
		Attempts:  cfg.Retry.Attempts,
		Delay:     cfg.Retry.Delay(),
		OutputDir: cfg.Output.Dir,
		Artifact:  cfg.Output.Artifact,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "base", dir, "folders", len(roots), "policy", policy.String())
	return orch.Run(ctx)
}

// loadSetup loads balanza.yaml (falling back to defaults when absent)
// and resolves the effective duplicate-period policy.
func loadSetup(dir, policyFlag string) (*config.Config, reconcile.Policy, error) {
	cfg := config.Default()
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, 0, err
		}
	}

	name := cfg.Policy
	if policyFlag != "" {
		name = policyFlag
	}
	policy, err := reconcile.ParsePolicy(name)
	if err != nil {
		return nil, 0, err
	}
	return cfg, policy, nil
}
