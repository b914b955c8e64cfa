package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavrop/backfill/internal/model"
	"github.com/stavrop/backfill/internal/schedule"
)

func init() {
	// Stable output in tests regardless of terminal detection.
	color.NoColor = true
}

func sampleResult() *model.RunResult {
	result := &model.RunResult{}

	good := model.Outcome{Repo: "notes", State: model.StatePushed, Published: true}
	good.RecordDay(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), 3, 3)
	good.RecordDay(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), 3, 2)
	result.Append(good)

	bad := model.Outcome{
		Repo:  "broken",
		State: model.StateCloneFailed,
		Err:   "clone failed: remote: Repository not found",
	}
	result.Append(bad)

	return result
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestTableFormatResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).FormatResult(sampleResult(), &buf))
	out := buf.String()

	assert.Contains(t, out, "notes")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "5/6")
	assert.Contains(t, out, "clone-failed")
	assert.Contains(t, out, "Repository not found")
	assert.Contains(t, out, "6 attempted")
	assert.Contains(t, out, "Estimated green days: 2")
}

func TestTableFormatResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).FormatResult(&model.RunResult{}, &buf))
	assert.Contains(t, buf.String(), "No repositories processed.")
}

func TestTableFormatPlan(t *testing.T) {
	sched, err := schedule.Build(
		schedule.Policy{Kind: schedule.CustomStreak, Length: 3, PerDay: 2},
		time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC),
		schedule.NewRand(1))
	require.NoError(t, err)

	var buf bytes.Buffer
	plan := Plan{Policy: "streak", Seed: 7, Repos: []string{"notes"}, Schedule: sched}
	require.NoError(t, (&TableFormatter{}).FormatPlan(plan, &buf))
	out := buf.String()

	assert.Contains(t, out, "Policy: streak (seed 7)")
	assert.Contains(t, out, "2024-03-04 .. 2024-03-06 (3 active days)")
	assert.Contains(t, out, "Total commits: 6")
	assert.Contains(t, out, "2024-03-05")
	assert.Contains(t, out, "##")
}

func TestJSONFormatResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatResult(sampleResult(), &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.EqualValues(t, 2, decoded["green_days"])
	assert.EqualValues(t, 1, decoded["published_repos"])
	assert.EqualValues(t, 6, decoded["attempted"])
	outcomes, ok := decoded["outcomes"].([]any)
	require.True(t, ok)
	assert.Len(t, outcomes, 2)

	// The token never appears anywhere in serialized output by construction;
	// spot-check the error text is present for the failed repository.
	assert.Contains(t, buf.String(), "Repository not found")
}

func TestJSONFormatPlan(t *testing.T) {
	sched, err := schedule.Build(
		schedule.Policy{Kind: schedule.CustomStreak, Length: 2, PerDay: 1},
		time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC),
		schedule.NewRand(1))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatPlan(Plan{Policy: "streak", Schedule: sched}, &buf))

	var decoded planJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "streak", decoded.Policy)
	assert.Equal(t, 2, decoded.ActiveDays)
	assert.Equal(t, 2, decoded.TotalCommits)
	require.Len(t, decoded.Days, 2)
	assert.Equal(t, "2024-03-05", decoded.Days[0].Date)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a-very-...", truncate("a-very-long-repository-name", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 5))
}
