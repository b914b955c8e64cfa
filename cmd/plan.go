package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stavrop/backfill/config"
	"github.com/stavrop/backfill/internal/log"
	"github.com/stavrop/backfill/internal/output"
	"github.com/stavrop/backfill/internal/schedule"
)

// NewCmdPlan creates the plan command.
func NewCmdPlan(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview a commit schedule without touching any repository",
		Long: `Builds the commit schedule the run command would execute and prints
it. No network access, no cloning, no commits. Pass --seed to preview
the exact schedule a seeded run will produce.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlan(opts)
		},
	}

	addPolicyFlags(cmd, opts)
	cmd.Flags().StringArrayVarP(&opts.Repos, "repo", "r", nil, "Target repository (repeatable, overrides config)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")

	return cmd
}

func runPlan(opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	policy, err := opts.SchedulePolicy()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts, cfg)
	if err != nil {
		return err
	}

	repos := cfg.Repos
	if len(opts.Repos) > 0 {
		repos = opts.Repos
	}

	sched, err := schedule.Build(policy, time.Now(), schedule.NewRand(opts.Seed))
	if err != nil {
		return err
	}

	plan := output.Plan{
		Policy:   string(policy.Kind),
		Seed:     opts.Seed,
		Repos:    repos,
		Schedule: sched,
	}
	return output.NewFormatter(format).FormatPlan(plan, os.Stdout)
}
