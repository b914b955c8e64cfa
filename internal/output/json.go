package output

import (
	"encoding/json"
	"io"

	"github.com/stavrop/backfill/internal/model"
)

// JSONFormatter formats output as JSON for scripting.
type JSONFormatter struct {
	Pretty bool
}

// resultJSON wraps the result with its derived fields, which plain
// marshaling would miss.
type resultJSON struct {
	*model.RunResult
	GreenDays      int `json:"green_days"`
	PublishedRepos int `json:"published_repos"`
}

// FormatResult outputs the run result as JSON.
func (f *JSONFormatter) FormatResult(result *model.RunResult, w io.Writer) error {
	return f.encode(w, resultJSON{
		RunResult:      result,
		GreenDays:      result.GreenDays(),
		PublishedRepos: result.PublishedRepos(),
	})
}

type planDayJSON struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type planJSON struct {
	Policy       string        `json:"policy"`
	Seed         int64         `json:"seed,omitempty"`
	Repos        []string      `json:"repos,omitempty"`
	ActiveDays   int           `json:"active_days"`
	TotalCommits int           `json:"total_commits"`
	Days         []planDayJSON `json:"days"`
}

// FormatPlan outputs a schedule preview as JSON.
func (f *JSONFormatter) FormatPlan(plan Plan, w io.Writer) error {
	out := planJSON{
		Policy:       plan.Policy,
		Seed:         plan.Seed,
		Repos:        plan.Repos,
		ActiveDays:   len(plan.Schedule),
		TotalCommits: plan.Schedule.TotalCommits(),
		Days:         make([]planDayJSON, 0, len(plan.Schedule)),
	}
	for _, e := range plan.Schedule {
		out.Days = append(out.Days, planDayJSON{
			Date:  e.Date.Format(model.DateLayout),
			Count: e.Count,
		})
	}
	return f.encode(w, out)
}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
