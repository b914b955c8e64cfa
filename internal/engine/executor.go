// Package engine turns a schedule into real version-control operations:
// the executor drives one working copy through its scheduled commits, and
// the coordinator runs that process across every target repository.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/stavrop/backfill/internal/gitrepo"
	"github.com/stavrop/backfill/internal/log"
	"github.com/stavrop/backfill/internal/model"
	"github.com/stavrop/backfill/internal/schedule"
)

// Workspace is the per-repository surface the executor drives. It is
// satisfied by *gitrepo.WorkingCopy; tests substitute fault-injecting fakes.
type Workspace interface {
	WriteArtifact() (string, error)
	Commit(ctx context.Context, authoredAt, committedAt time.Time, message string) (string, error)
	Push(ctx context.Context) error
}

// Manager acquires and releases workspaces, one per repository.
type Manager interface {
	Acquire(ctx context.Context, remoteURL, token string, author model.Identity, branch string) (Workspace, error)
	Release(ws Workspace)
}

// gitManager adapts gitrepo.Manager to the Manager interface.
type gitManager struct {
	inner *gitrepo.Manager
}

// NewGitManager returns the production Manager backed by the git binary.
func NewGitManager() Manager {
	return gitManager{inner: gitrepo.NewManager()}
}

func (g gitManager) Acquire(ctx context.Context, remoteURL, token string, author model.Identity, branch string) (Workspace, error) {
	wc, err := g.inner.Acquire(ctx, remoteURL, token, author, branch)
	if err != nil {
		return nil, err
	}
	return wc, nil
}

func (g gitManager) Release(ws Workspace) {
	if wc, ok := ws.(*gitrepo.WorkingCopy); ok {
		g.inner.Release(wc)
	}
}

// executeSchedule performs one commit per scheduled repetition against ws,
// then a single push. A failed artifact write or commit aborts only that
// repetition; the loop always continues to the next one. Push failure keeps
// the local success counts but marks the outcome unpublished.
func executeSchedule(ctx context.Context, ws Workspace, repo string, sched schedule.Schedule) model.Outcome {
	out := model.Outcome{Repo: repo, State: model.StateCommitting}

	total := sched.TotalCommits()
	done := 0
	for _, e := range sched {
		attempted, succeeded := 0, 0
		for i := 0; i < e.Count; i++ {
			attempted++
			done++
			at := e.Date.Add(e.Times[i])

			if _, err := ws.WriteArtifact(); err != nil {
				log.Warn("skipping commit", "repo", repo, "date", e.Date.Format(model.DateLayout), "error", err)
				continue
			}
			if _, err := ws.Commit(ctx, at, at, commitMessage(at)); err != nil {
				log.Warn("skipping commit", "repo", repo, "date", e.Date.Format(model.DateLayout), "error", err)
				continue
			}
			succeeded++
			log.Progress("%s: %d/%d commits", repo, done, total)
		}
		out.RecordDay(e.Date, attempted, succeeded)
	}
	log.ProgressDone()

	if err := ws.Push(ctx); err != nil {
		// Local commits exist but never reached the remote, so they will not
		// show on the contribution graph.
		out.State = model.StatePushFailed
		out.Err = err.Error()
		log.Error("push failed", "repo", repo, "error", err)
		return out
	}

	out.State = model.StatePushed
	out.Published = true
	log.Info("pushed", "repo", repo, "commits", out.Succeeded, "failed", out.Failed)
	return out
}

// commitMessage names a generated commit after its backdated timestamp.
func commitMessage(at time.Time) string {
	return fmt.Sprintf("Update activity log for %s", at.Format("2006-01-02 15:04"))
}
