package model

// RunResult aggregates per-repository outcomes for one run. It is built
// incrementally by the coordinator and handed to the output layer once
// the run ends.
type RunResult struct {
	Outcomes  []Outcome `json:"outcomes"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// Append adds an outcome and folds its counts into the aggregate totals.
func (r *RunResult) Append(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Attempted += o.Attempted
	r.Succeeded += o.Succeeded
	r.Failed += o.Failed
}

// GreenDays estimates how many distinct calendar days will show activity on
// the contribution graph: days with at least one succeeded commit in a
// repository whose history actually reached the remote.
func (r *RunResult) GreenDays() int {
	days := make(map[string]bool)
	for _, o := range r.Outcomes {
		if !o.Published {
			continue
		}
		for _, d := range o.Days {
			if d.Succeeded > 0 {
				days[d.Date.Format(DateLayout)] = true
			}
		}
	}
	return len(days)
}

// PublishedRepos returns how many repositories were pushed successfully.
func (r *RunResult) PublishedRepos() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Published {
			n++
		}
	}
	return n
}
