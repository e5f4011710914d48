package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetbook-dev/budgetbook/internal/budget"
	"github.com/budgetbook-dev/budgetbook/internal/config"
	"github.com/budgetbook-dev/budgetbook/internal/gitops"
	"github.com/budgetbook-dev/budgetbook/internal/model"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var seed bool
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Create a new budget data file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "budget.json"
			if len(args) > 0 {
				file = args[0]
			}
			abs, err := filepath.Abs(file)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(opts, abs, seed, useGit)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "seed the current month with starter categories")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the file")

	return cmd
}

func runInit(opts *globalOptions, file string, seed, useGit bool) error {
	if _, err := os.Stat(file); err == nil {
		return fmt.Errorf("%s already exists", file)
	}

	svc := budget.New(file, opts.logger())
	now := model.CurrentPeriod(time.Now())
	if err := svc.EnsurePeriod(now.Year, now.Month); err != nil {
		return err
	}
	if seed {
		if err := svc.SeedDefaults(now.Year, now.Month); err != nil {
			return err
		}
	}
	if err := svc.Save(); err != nil {
		return err
	}

	// Remember the file for subsequent commands.
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.LastFile = file
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	if useGit {
		dir := filepath.Dir(file)
		if !gitops.IsRepo(dir) {
			if err := gitops.Init(dir); err != nil {
				return err
			}
		}
		hash, err := gitops.CommitFile(dir, filepath.Base(file),
			"budgetbook: initialize "+filepath.Base(file),
			cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Printf("Initialized budget at %s (%s)\n", file, hash)
		return nil
	}

	fmt.Printf("Initialized budget at %s\n", file)
	return nil
}
