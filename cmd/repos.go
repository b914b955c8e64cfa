package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stavrop/backfill/config"
	"github.com/stavrop/backfill/internal/ghclient"
	"github.com/stavrop/backfill/internal/log"
)

// NewCmdRepos creates the repos command with subcommands.
func NewCmdRepos(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Inspect the configured target repositories",
	}

	cmd.AddCommand(NewCmdReposVerify(opts))

	return cmd
}

// NewCmdReposVerify creates the repos verify subcommand.
func NewCmdReposVerify(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every target repository exists and is pushable",
		Long: `Looks up each configured repository through the GitHub API and reports
whether it exists, whether the token can push to it, and its default
branch. Requires a GITHUB_TOKEN.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runReposVerify(opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Repos, "repo", "r", nil, "Target repository (repeatable, overrides config)")

	return cmd
}

func runReposVerify(opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repos := cfg.Repos
	if len(opts.Repos) > 0 {
		repos = opts.Repos
	}
	if cfg.Owner == "" {
		return fmt.Errorf("no repository owner configured")
	}
	if len(repos) == 0 {
		return fmt.Errorf("no target repositories configured")
	}

	token := cfg.GetToken()
	if token == "" {
		return fmt.Errorf("no token provided. Set the GITHUB_TOKEN environment variable")
	}

	ctx := context.Background()
	client, err := ghclient.NewClient(ctx, token)
	if err != nil {
		return err
	}
	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	fmt.Printf("Authenticated as %s\n\n", user)

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	bad := 0
	for _, repo := range repos {
		full := cfg.Owner + "/" + repo
		info, err := client.Repo(ctx, cfg.Owner, repo)
		switch {
		case errors.Is(err, ghclient.ErrRepoNotFound):
			fmt.Printf("  %s  %s\n", red("missing "), full)
			bad++
		case err != nil:
			fmt.Printf("  %s  %s (%v)\n", red("error   "), full, err)
			bad++
		case !info.Pushable:
			fmt.Printf("  %s  %s (no push access)\n", yellow("readonly"), full)
			bad++
		default:
			visibility := "public"
			if info.Private {
				visibility = "private"
			}
			fmt.Printf("  %s  %s (%s, default branch %s)\n", green("ok      "), full, visibility, info.DefaultBranch)
		}
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d repositories failed verification", bad, len(repos))
	}
	fmt.Printf("\nAll %d repositories verified: %s\n", len(repos), strings.Join(repos, ", "))
	return nil
}
