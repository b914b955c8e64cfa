package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stavrop/backfill/config"
	"github.com/stavrop/backfill/internal/engine"
	"github.com/stavrop/backfill/internal/ghclient"
	"github.com/stavrop/backfill/internal/gitrepo"
	"github.com/stavrop/backfill/internal/log"
	"github.com/stavrop/backfill/internal/model"
	"github.com/stavrop/backfill/internal/output"
	"github.com/stavrop/backfill/internal/schedule"
	"golang.org/x/term"
)

// NewCmdRun creates the run command.
func NewCmdRun(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and push backdated commits",
		Long: `Builds a commit schedule for the selected policy, clones each target
repository, creates one backdated commit per scheduled slot, and pushes
the result. Requires a GITHUB_TOKEN with push access to the targets.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	addPolicyFlags(cmd, opts)
	cmd.Flags().StringArrayVarP(&opts.Repos, "repo", "r", nil, "Target repository (repeatable, overrides config)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Repositories to process concurrently (default sequential)")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "Push branch (default: remote default branch)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")

	return cmd
}

// addPolicyFlags adds the schedule policy flags shared by run and plan.
func addPolicyFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Policy, "policy", "p", "fill", "Schedule policy (fill, year, bulk, streak)")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "fill: window size in days (default 90)")
	cmd.Flags().IntVar(&opts.MinPerDay, "min", 0, "fill: minimum commits per day (default 2)")
	cmd.Flags().IntVar(&opts.MaxPerDay, "max", 0, "fill: maximum commits per day (default 4)")
	cmd.Flags().IntVar(&opts.Total, "total", 0, "bulk: total commits to distribute (default 100)")
	cmd.Flags().IntVar(&opts.DaysBack, "days-back", 0, "bulk: how far back to spread commits (default 365)")
	cmd.Flags().IntVar(&opts.Length, "length", 0, "streak: streak length in days (default 30)")
	cmd.Flags().IntVar(&opts.PerDay, "per-day", 0, "streak: commits per streak day (default 3)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (0 uses the clock)")
}

func runRun(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	profiler := NewProfiler(opts.CPUProfile, opts.MemProfile)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	policy, err := opts.SchedulePolicy()
	if err != nil {
		return err
	}
	if err := schedule.Validate(policy); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runCfg, err := buildRunConfig(cfg, opts)
	if err != nil {
		return err
	}

	if !gitrepo.Installed() {
		return fmt.Errorf("git executable not found in PATH")
	}

	format, err := resolveFormat(opts, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ghclient.NewClient(ctx, runCfg.Token)
	if err != nil {
		return err
	}
	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	log.Info("authenticated", "user", user)

	if !opts.Yes {
		if err := confirmRun(runCfg, policy); err != nil {
			return err
		}
	}

	coordinator := engine.NewCoordinator(engine.NewGitManager(),
		engine.WithBranchResolver(func(ctx context.Context, repo string) string {
			return client.DefaultBranch(ctx, runCfg.Owner, repo)
		}))

	result, err := coordinator.Run(ctx, runCfg, policy)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format)
	if err := formatter.FormatResult(result, os.Stdout); err != nil {
		return err
	}

	if result.PublishedRepos() == 0 {
		return fmt.Errorf("no repository was pushed successfully")
	}
	return nil
}

// buildRunConfig assembles the engine input from config file, flags, and
// environment. The token never comes from the config file.
func buildRunConfig(cfg *config.Config, opts *Options) (model.RunConfig, error) {
	runCfg := model.RunConfig{
		Token: cfg.GetToken(),
		Owner: cfg.Owner,
		Repos: cfg.Repos,
		Author: model.Identity{
			Name:  cfg.AuthorName,
			Email: cfg.AuthorEmail,
		},
		Branch:  cfg.Branch,
		Seed:    opts.Seed,
		Workers: cfg.Workers,
	}
	if len(opts.Repos) > 0 {
		runCfg.Repos = opts.Repos
	}
	if opts.Workers > 0 {
		runCfg.Workers = opts.Workers
	}
	if opts.Branch != "" {
		runCfg.Branch = opts.Branch
	}

	if runCfg.Token == "" {
		token, err := promptToken()
		if err != nil {
			return model.RunConfig{}, err
		}
		runCfg.Token = token
	}

	if err := runCfg.Validate(); err != nil {
		return model.RunConfig{}, err
	}
	return runCfg, nil
}

// promptToken reads a token from the terminal without echo. It refuses to
// prompt when stdin is not a terminal, so scripted runs fail fast.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no token provided. Set the GITHUB_TOKEN environment variable")
	}
	fmt.Fprint(os.Stderr, "GitHub token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("no token provided. Set the GITHUB_TOKEN environment variable")
	}
	return token, nil
}

// confirmRun shows what the run is about to do and asks for confirmation.
// History written by this tool is effectively permanent once pushed.
func confirmRun(cfg model.RunConfig, policy schedule.Policy) error {
	fmt.Printf("About to generate backdated commits:\n")
	fmt.Printf("  Policy:       %s\n", policy.Kind)
	fmt.Printf("  Owner:        %s\n", cfg.Owner)
	fmt.Printf("  Repositories: %s\n", strings.Join(cfg.Repos, ", "))
	fmt.Printf("  Author:       %s <%s>\n", cfg.Author.Name, cfg.Author.Email)
	fmt.Print("Proceed? [y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return fmt.Errorf("aborted")
}

// resolveFormat picks the output format from flag, then config, then table.
func resolveFormat(opts *Options, cfg *config.Config) (output.Format, error) {
	name := opts.Format
	if name == "" {
		name = cfg.DefaultFormat
	}
	if name == "" {
		return output.FormatTable, nil
	}
	return output.ParseFormat(name)
}
