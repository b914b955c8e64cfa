package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavrop/backfill/internal/model"
	"github.com/stavrop/backfill/internal/schedule"
)

// fakeWorkspace scripts per-attempt failures. Attempt numbering is 1-based
// and counts every repetition, across all entries.
type fakeWorkspace struct {
	artifactErrAt map[int]error
	commitErrAt   map[int]error
	pushErr       error

	attempt   int
	artifacts int
	commits   []time.Time
	pushes    int
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{
		artifactErrAt: make(map[int]error),
		commitErrAt:   make(map[int]error),
	}
}

func (f *fakeWorkspace) WriteArtifact() (string, error) {
	f.attempt++
	if err := f.artifactErrAt[f.attempt]; err != nil {
		return "", err
	}
	f.artifacts++
	return "artifact.txt", nil
}

func (f *fakeWorkspace) Commit(_ context.Context, authoredAt, _ time.Time, _ string) (string, error) {
	if err := f.commitErrAt[f.attempt]; err != nil {
		return "", err
	}
	f.commits = append(f.commits, authoredAt)
	return "abc123", nil
}

func (f *fakeWorkspace) Push(_ context.Context) error {
	f.pushes++
	return f.pushErr
}

func dayEntry(date time.Time, count int) schedule.Entry {
	times := make([]time.Duration, count)
	for i := range times {
		times[i] = time.Duration(i+9) * time.Hour
	}
	return schedule.Entry{Date: date, Count: count, Times: times}
}

var day = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

func TestExecuteScheduleAllSucceed(t *testing.T) {
	ws := newFakeWorkspace()
	sched := schedule.Schedule{dayEntry(day, 2), dayEntry(day.AddDate(0, 0, 1), 1)}

	out := executeSchedule(context.Background(), ws, "notes", sched)

	assert.Equal(t, model.StatePushed, out.State)
	assert.True(t, out.Published)
	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 3, out.Succeeded)
	assert.Equal(t, 0, out.Failed)
	assert.Equal(t, 1, ws.pushes, "exactly one push per repository")
	require.Len(t, out.Days, 2)

	// Authored times are the entry date plus that repetition's clock offset.
	require.Len(t, ws.commits, 3)
	assert.Equal(t, day.Add(9*time.Hour), ws.commits[0])
	assert.Equal(t, day.Add(10*time.Hour), ws.commits[1])
	assert.Equal(t, day.AddDate(0, 0, 1).Add(9*time.Hour), ws.commits[2])
}

func TestExecuteScheduleContinuesPastCommitFailure(t *testing.T) {
	ws := newFakeWorkspace()
	ws.commitErrAt[3] = errors.New("commit failed: index locked")
	sched := schedule.Schedule{dayEntry(day, 5)}

	out := executeSchedule(context.Background(), ws, "notes", sched)

	assert.Equal(t, 5, out.Attempted, "all repetitions attempted")
	assert.Equal(t, 4, out.Succeeded, "only the failed repetition is lost")
	assert.Equal(t, 1, out.Failed)
	assert.True(t, out.Published, "push still happens")
	require.Len(t, ws.commits, 4, "repetitions 4 and 5 ran after the failure")
}

func TestExecuteScheduleArtifactFailureSkipsCommit(t *testing.T) {
	ws := newFakeWorkspace()
	ws.artifactErrAt[2] = errors.New("artifact write failed: disk full")
	sched := schedule.Schedule{dayEntry(day, 3)}

	out := executeSchedule(context.Background(), ws, "notes", sched)

	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 2, out.Succeeded)
	assert.Len(t, ws.commits, 2, "no commit is attempted without an artifact")
}

func TestExecuteSchedulePushFailureKeepsLocalCounts(t *testing.T) {
	ws := newFakeWorkspace()
	ws.pushErr = errors.New("push failed: protected branch")
	sched := schedule.Schedule{dayEntry(day, 2)}

	out := executeSchedule(context.Background(), ws, "notes", sched)

	assert.Equal(t, model.StatePushFailed, out.State)
	assert.False(t, out.Published, "local commits are not remote-visible")
	assert.Equal(t, 2, out.Succeeded, "local commit counts are kept")
	assert.Contains(t, out.Err, "protected branch")
	assert.Equal(t, 1, ws.pushes, "no automatic retry")
}

func TestExecuteScheduleDayBreakdown(t *testing.T) {
	ws := newFakeWorkspace()
	ws.commitErrAt[1] = errors.New("commit failed")
	sched := schedule.Schedule{dayEntry(day, 1), dayEntry(day.AddDate(0, 0, 1), 2)}

	out := executeSchedule(context.Background(), ws, "notes", sched)

	require.Len(t, out.Days, 2)
	assert.Equal(t, model.DayResult{Date: day, Attempted: 1, Succeeded: 0}, out.Days[0])
	assert.Equal(t, model.DayResult{Date: day.AddDate(0, 0, 1), Attempted: 2, Succeeded: 2}, out.Days[1])
}
