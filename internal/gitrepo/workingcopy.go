// Package gitrepo manages scoped, isolated clones of target repositories and
// the dated commit operations performed against them. All filesystem side
// effects stay inside a working copy's temporary directory, which is removed
// unconditionally on release.
package gitrepo

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/stavrop/backfill/internal/log"
	"github.com/stavrop/backfill/internal/model"
)

// gitDateLayout is the ISO 8601 form git accepts for the author and
// committer date environment overrides.
const gitDateLayout = "2006-01-02T15:04:05-07:00"

// Manager acquires and releases working copies.
type Manager struct {
	runner Runner
}

// NewManager returns a Manager backed by the git binary.
func NewManager() *Manager {
	return &Manager{runner: ExecRunner{}}
}

// NewManagerWithRunner returns a Manager with a custom Runner, for tests.
func NewManagerWithRunner(r Runner) *Manager {
	return &Manager{runner: r}
}

// WorkingCopy is an isolated clone of one target repository. Its lifetime is
// bound to that repository's processing; it is never shared across
// repositories or concurrent operations.
type WorkingCopy struct {
	dir    string
	remote string // redacted remote URL, for error context
	branch string
	runner Runner
}

// Dir returns the working copy's root path.
func (wc *WorkingCopy) Dir() string { return wc.dir }

// Acquire clones remoteURL into a fresh temporary directory, authenticating
// with the token embedded in the fetch URL, and configures the commit
// identity in the clone. On any failure the directory is removed before the
// error is returned.
func (m *Manager) Acquire(ctx context.Context, remoteURL, token string, author model.Identity, branch string) (*WorkingCopy, error) {
	dir, err := os.MkdirTemp("", "backfill-")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp dir: %v", ErrCloneFailed, err)
	}

	if _, err := m.runner.Run(ctx, "", nil, "clone", "--quiet", injectToken(remoteURL, token), dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %s: %v", ErrCloneFailed, remoteURL, err)
	}

	for _, kv := range [][2]string{{"user.name", author.Name}, {"user.email", author.Email}} {
		if _, err := m.runner.Run(ctx, dir, nil, "config", kv[0], kv[1]); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("%w: configuring %s: %v", ErrCloneFailed, kv[0], err)
		}
	}

	if branch == "" {
		branch = "main"
	}

	return &WorkingCopy{dir: dir, remote: remoteURL, branch: branch, runner: m.runner}, nil
}

// Release removes the working copy's directory tree. It is safe to call with
// nil and safe to call more than once; removal failures are logged, never
// returned, since there is nothing a caller could do about them mid-run.
func (m *Manager) Release(wc *WorkingCopy) {
	if wc == nil || wc.dir == "" {
		return
	}
	if err := os.RemoveAll(wc.dir); err != nil {
		log.Warn("failed to remove working copy", "dir", wc.dir, "error", err)
	}
	wc.dir = ""
}

// WriteArtifact creates a new uniquely named file inside the working copy so
// the next commit has non-empty content. Returns the filename.
func (wc *WorkingCopy) WriteArtifact() (string, error) {
	name := fmt.Sprintf("activity-%s.txt", uuid.NewString()[:8])
	content := fmt.Sprintf("backfill artifact %s\n", uuid.NewString())
	if err := os.WriteFile(filepath.Join(wc.dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrArtifactWrite, err)
	}
	return name, nil
}

// Commit stages everything in the working copy and creates a commit whose
// author and committer timestamps are exactly authoredAt and committedAt,
// not the wall clock. Returns the new commit hash.
func (wc *WorkingCopy) Commit(ctx context.Context, authoredAt, committedAt time.Time, message string) (string, error) {
	if _, err := wc.runner.Run(ctx, wc.dir, nil, "add", "--all"); err != nil {
		return "", fmt.Errorf("%w: staging: %v", ErrCommitFailed, err)
	}

	env := []string{
		"GIT_AUTHOR_DATE=" + authoredAt.Format(gitDateLayout),
		"GIT_COMMITTER_DATE=" + committedAt.Format(gitDateLayout),
	}
	if _, err := wc.runner.Run(ctx, wc.dir, env, "commit", "--quiet", "-m", message); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	hash, err := wc.runner.Run(ctx, wc.dir, nil, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: resolving head: %v", ErrCommitFailed, err)
	}
	return hash, nil
}

// Push publishes the working copy's history to the remote's default branch.
// Rejections are reported, not retried; local commits are never rolled back.
func (wc *WorkingCopy) Push(ctx context.Context) error {
	if _, err := wc.runner.Run(ctx, wc.dir, nil, "push", "--quiet", "origin", "HEAD:"+wc.branch); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPushFailed, wc.remote, err)
	}
	return nil
}

// injectToken embeds the bearer token as userinfo in an HTTPS remote URL.
// Anything unparseable is returned untouched and left to git to reject.
func injectToken(remoteURL, token string) string {
	if token == "" {
		return remoteURL
	}
	u, err := url.Parse(remoteURL)
	if err != nil || u.Scheme != "https" {
		return remoteURL
	}
	u.User = url.User(token)
	return u.String()
}
