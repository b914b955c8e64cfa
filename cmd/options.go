package cmd

import "github.com/stavrop/backfill/internal/schedule"

// Options holds the shared command-line options for the backfill CLI.
type Options struct {
	Format    string
	Verbosity int

	// Policy selection and parameters
	Policy    string
	Days      int
	MinPerDay int
	MaxPerDay int
	Total     int
	DaysBack  int
	Length    int
	PerDay    int
	Seed      int64

	// Run behavior
	Repos   []string // overrides the configured target list
	Workers int
	Branch  string
	Yes     bool // skip the confirmation prompt

	// Profiling
	CPUProfile string
	MemProfile string
}

// SchedulePolicy maps the flag values onto a schedule policy. Unset numeric
// flags stay zero and take the policy defaults.
func (o *Options) SchedulePolicy() (schedule.Policy, error) {
	kind, err := schedule.ParseKind(o.Policy)
	if err != nil {
		return schedule.Policy{}, err
	}
	return schedule.Policy{
		Kind:      kind,
		Days:      o.Days,
		MinPerDay: o.MinPerDay,
		MaxPerDay: o.MaxPerDay,
		Total:     o.Total,
		DaysBack:  o.DaysBack,
		Length:    o.Length,
		PerDay:    o.PerDay,
	}, nil
}
