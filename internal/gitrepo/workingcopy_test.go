package gitrepo

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavrop/backfill/internal/model"
)

type runnerCall struct {
	dir  string
	env  []string
	args []string
}

// fakeRunner scripts git behavior per subcommand without touching a real
// repository.
type fakeRunner struct {
	calls []runnerCall
	fail  map[string]error
	out   map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		fail: make(map[string]error),
		out:  make(map[string]string),
	}
}

func (f *fakeRunner) Run(_ context.Context, dir string, env []string, args ...string) (string, error) {
	f.calls = append(f.calls, runnerCall{dir: dir, env: env, args: args})
	if err := f.fail[args[0]]; err != nil {
		return "", err
	}
	return f.out[args[0]], nil
}

func (f *fakeRunner) callsFor(sub string) []runnerCall {
	var out []runnerCall
	for _, c := range f.calls {
		if c.args[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

var testAuthor = model.Identity{Name: "Jo Dev", Email: "jo@example.com"}

func TestAcquireClonesWithEmbeddedToken(t *testing.T) {
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok123", testAuthor, "")
	require.NoError(t, err)
	defer m.Release(wc)

	clones := runner.callsFor("clone")
	require.Len(t, clones, 1)
	assert.Equal(t, "https://tok123@github.com/jo/notes.git", clones[0].args[2])

	// Identity configured inside the clone.
	configs := runner.callsFor("config")
	require.Len(t, configs, 2)
	assert.Equal(t, []string{"config", "user.name", "Jo Dev"}, configs[0].args)
	assert.Equal(t, []string{"config", "user.email", "jo@example.com"}, configs[1].args)
	assert.Equal(t, wc.Dir(), configs[0].dir)

	_, err = os.Stat(wc.Dir())
	assert.NoError(t, err, "working copy directory should exist")
}

func TestAcquireCloneFailureCleansUp(t *testing.T) {
	runner := newFakeRunner()
	runner.fail["clone"] = errors.New("remote: Repository not found")
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/missing.git", "tok", testAuthor, "")
	require.ErrorIs(t, err, ErrCloneFailed)
	assert.Nil(t, wc)
	assert.Contains(t, err.Error(), "Repository not found")

	// The temp dir handed to git clone must not be left behind.
	clones := runner.callsFor("clone")
	require.Len(t, clones, 1)
	dir := clones[0].args[3]
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "clone dir %s should be removed", dir)
}

func TestAcquireConfigFailureCleansUp(t *testing.T) {
	runner := newFakeRunner()
	runner.fail["config"] = errors.New("bad config")
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
	require.ErrorIs(t, err, ErrCloneFailed)
	assert.Nil(t, wc)
}

func TestReleaseRemovesDirAndIsIdempotent(t *testing.T) {
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
	require.NoError(t, err)
	dir := wc.Dir()

	m.Release(wc)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))

	m.Release(wc)  // second release is a no-op
	m.Release(nil) // nil is safe
}

func TestWriteArtifactCreatesUniqueFiles(t *testing.T) {
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
	require.NoError(t, err)
	defer m.Release(wc)

	a, err := wc.WriteArtifact()
	require.NoError(t, err)
	b, err := wc.WriteArtifact()
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "artifact names must be unique")
	for _, name := range []string{a, b} {
		_, statErr := os.Stat(wc.Dir() + "/" + name)
		assert.NoError(t, statErr)
	}
}

func TestWriteArtifactFailure(t *testing.T) {
	wc := &WorkingCopy{dir: "/nonexistent/backfill-test", runner: newFakeRunner()}
	_, err := wc.WriteArtifact()
	require.ErrorIs(t, err, ErrArtifactWrite)
}

func TestCommitSetsExplicitDates(t *testing.T) {
	runner := newFakeRunner()
	runner.out["rev-parse"] = "deadbeef"
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
	require.NoError(t, err)
	defer m.Release(wc)

	authored := time.Date(2023, time.June, 2, 9, 15, 0, 0, time.UTC)
	hash, err := wc.Commit(context.Background(), authored, authored, "notes update")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", hash)

	commits := runner.callsFor("commit")
	require.Len(t, commits, 1)
	env := strings.Join(commits[0].env, " ")
	assert.Contains(t, env, "GIT_AUTHOR_DATE=2023-06-02T09:15:00+00:00")
	assert.Contains(t, env, "GIT_COMMITTER_DATE=2023-06-02T09:15:00+00:00")
	assert.Equal(t, "notes update", commits[0].args[len(commits[0].args)-1])

	adds := runner.callsFor("add")
	require.Len(t, adds, 1, "everything is staged before commit")
}

func TestCommitFailures(t *testing.T) {
	tests := []struct {
		name string
		fail string
	}{
		{"staging fails", "add"},
		{"commit object fails", "commit"},
		{"head resolution fails", "rev-parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner()
			runner.fail[tt.fail] = errors.New("boom")
			m := NewManagerWithRunner(runner)

			wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
			require.NoError(t, err)
			defer m.Release(wc)

			_, err = wc.Commit(context.Background(), time.Now(), time.Now(), "msg")
			require.ErrorIs(t, err, ErrCommitFailed)
		})
	}
}

func TestPush(t *testing.T) {
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "trunk")
	require.NoError(t, err)
	defer m.Release(wc)

	require.NoError(t, wc.Push(context.Background()))

	pushes := runner.callsFor("push")
	require.Len(t, pushes, 1)
	assert.Equal(t, []string{"push", "--quiet", "origin", "HEAD:trunk"}, pushes[0].args)
}

func TestPushDefaultsToMain(t *testing.T) {
	runner := newFakeRunner()
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
	require.NoError(t, err)
	defer m.Release(wc)

	require.NoError(t, wc.Push(context.Background()))
	assert.Equal(t, "HEAD:main", runner.callsFor("push")[0].args[3])
}

func TestPushFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.fail["push"] = errors.New("remote rejected")
	m := NewManagerWithRunner(runner)

	wc, err := m.Acquire(context.Background(), "https://github.com/jo/notes.git", "tok", testAuthor, "")
	require.NoError(t, err)
	defer m.Release(wc)

	err = wc.Push(context.Background())
	require.ErrorIs(t, err, ErrPushFailed)
	assert.NotContains(t, err.Error(), "tok", "token must never leak into errors")
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://secret@github.com/a/b.git", "https://***@github.com/a/b.git"},
		{"fatal: unable to access 'https://ghp_abc123@github.com/x/y.git'", "fatal: unable to access 'https://***@github.com/x/y.git'"},
		{"https://github.com/a/b.git", "https://github.com/a/b.git"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Redact(tt.in))
	}
}

func TestInjectToken(t *testing.T) {
	assert.Equal(t, "https://tok@github.com/a/b.git", injectToken("https://github.com/a/b.git", "tok"))
	assert.Equal(t, "https://github.com/a/b.git", injectToken("https://github.com/a/b.git", ""))
	assert.Equal(t, "git@github.com:a/b.git", injectToken("git@github.com:a/b.git", "tok"))
}
