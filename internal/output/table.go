package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/stavrop/backfill/internal/model"
)

// TableFormatter renders human-readable terminal tables.
type TableFormatter struct{}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// FormatResult outputs per-repository outcomes and aggregate totals.
func (f *TableFormatter) FormatResult(result *model.RunResult, w io.Writer) error {
	if len(result.Outcomes) == 0 {
		fmt.Fprintln(w, "No repositories processed.")
		return nil
	}

	const (
		colRepo  = 24
		colState = 14
		colCom   = 12
		colDays  = 5
		colErr   = 40
	)

	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		pad("Repository", colRepo),
		pad("State", colState),
		pad("Commits", colCom),
		pad("Days", colDays),
		"Error")
	fmt.Fprintln(w, strings.Repeat("-", colRepo+colState+colCom+colDays+colErr+8))

	for _, o := range result.Outcomes {
		state := pad(string(o.State), colState)
		switch o.State {
		case model.StatePushed:
			state = green(state)
		case model.StatePushFailed:
			state = yellow(state)
		case model.StateCloneFailed:
			state = red(state)
		}

		errText := ""
		if o.Err != "" {
			errText = red(truncate(o.Err, colErr))
		}

		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			pad(truncate(o.Repo, colRepo), colRepo),
			state,
			pad(fmt.Sprintf("%d/%d", o.Succeeded, o.Attempted), colCom),
			pad(fmt.Sprintf("%d", len(o.Days)), colDays),
			errText)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d attempted, %s succeeded, %s failed across %d repositories (%d published)\n",
		bold("Total:"),
		result.Attempted,
		green(fmt.Sprintf("%d", result.Succeeded)),
		red(fmt.Sprintf("%d", result.Failed)),
		len(result.Outcomes),
		result.PublishedRepos())
	fmt.Fprintf(w, "Estimated green days: %s\n", green(fmt.Sprintf("%d", result.GreenDays())))
	return nil
}

// FormatPlan outputs a schedule preview with a small per-day bar chart.
func (f *TableFormatter) FormatPlan(plan Plan, w io.Writer) error {
	fmt.Fprintf(w, "%s %s", bold("Policy:"), plan.Policy)
	if plan.Seed != 0 {
		fmt.Fprintf(w, " (seed %d)", plan.Seed)
	}
	fmt.Fprintln(w)

	if len(plan.Repos) > 0 {
		fmt.Fprintf(w, "%s %s\n", bold("Repositories:"), strings.Join(plan.Repos, ", "))
	}

	if len(plan.Schedule) == 0 {
		fmt.Fprintln(w, "No days scheduled.")
		return nil
	}

	first, last := plan.Schedule.Window()
	fmt.Fprintf(w, "%s %s .. %s (%d active days)\n",
		bold("Window:"),
		first.Format(model.DateLayout),
		last.Format(model.DateLayout),
		len(plan.Schedule))
	fmt.Fprintf(w, "%s %d per repository\n\n", bold("Total commits:"), plan.Schedule.TotalCommits())

	fmt.Fprintf(w, "%s  %s\n", pad("Date", 10), "Commits")
	for _, e := range plan.Schedule {
		bar := strings.Repeat("#", e.Count)
		fmt.Fprintf(w, "%s  %-3d %s\n", e.Date.Format(model.DateLayout), e.Count, green(bar))
	}
	return nil
}
