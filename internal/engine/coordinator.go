package engine

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stavrop/backfill/internal/log"
	"github.com/stavrop/backfill/internal/model"
	"github.com/stavrop/backfill/internal/schedule"
)

// BranchResolver maps a repository name to the branch its push should
// target. An empty result means "main".
type BranchResolver func(ctx context.Context, repo string) string

// Coordinator drives a full run: one schedule, one working copy, and one
// executor pass per target repository, with outcomes aggregated in config
// order.
type Coordinator struct {
	manager  Manager
	resolver BranchResolver
	now      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithBranchResolver sets the per-repository push branch lookup, used when
// the run config does not pin a branch.
func WithBranchResolver(r BranchResolver) Option {
	return func(c *Coordinator) { c.resolver = r }
}

// WithClock overrides the run's notion of now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a Coordinator on top of the given Manager.
func NewCoordinator(m Manager, opts ...Option) *Coordinator {
	c := &Coordinator{manager: m, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes every configured repository and aggregates the outcomes.
// Invalid config or schedule parameters abort before any side effect; once
// execution starts, per-repository failures are recorded and the run
// continues. Cancelling ctx stops the run between repositories; progress
// already pushed remains valid.
func (c *Coordinator) Run(ctx context.Context, cfg model.RunConfig, policy schedule.Policy) (*model.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := schedule.Validate(policy); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	// Each repository gets its own random source so schedules can be built
	// concurrently. A fixed config seed keeps every repository reproducible
	// while still distinct.
	outcomes := make([]model.Outcome, len(cfg.Repos))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, repo := range cfg.Repos {
		i, repo := i, repo
		rng := schedule.NewRand(0)
		if cfg.Seed != 0 {
			rng = schedule.NewRand(cfg.Seed + int64(i))
		}
		g.Go(func() error {
			outcomes[i] = c.processRepo(ctx, cfg, policy, repo, rng)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.RunResult{}
	for _, o := range outcomes {
		result.Append(o)
	}
	return result, nil
}

// processRepo owns the full lifecycle of one repository: acquire, execute,
// release. Release runs on every exit path.
func (c *Coordinator) processRepo(ctx context.Context, cfg model.RunConfig, policy schedule.Policy, repo string, rng *rand.Rand) model.Outcome {
	if ctx.Err() != nil {
		return model.Outcome{Repo: repo, State: model.StatePending, Err: "run abandoned before processing"}
	}

	sched, err := schedule.Build(policy, c.now(), rng)
	if err != nil {
		// Parameters were validated up front, so this is unreachable in
		// practice, but a policy bug must not take down the whole run.
		return model.Outcome{Repo: repo, State: model.StatePending, Err: err.Error()}
	}

	branch := cfg.Branch
	if branch == "" && c.resolver != nil {
		branch = c.resolver(ctx, repo)
	}

	ws, err := c.manager.Acquire(ctx, cfg.RemoteURL(repo), cfg.Token, cfg.Author, branch)
	if err != nil {
		log.Error("clone failed", "repo", repo, "error", err)
		return model.Outcome{Repo: repo, State: model.StateCloneFailed, Err: err.Error()}
	}
	defer c.manager.Release(ws)

	log.Info("cloned", "repo", repo, "days", len(sched), "commits", sched.TotalCommits())
	return executeSchedule(ctx, ws, repo, sched)
}
