// Package output renders run results and schedule plans for the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/stavrop/backfill/internal/model"
	"github.com/stavrop/backfill/internal/schedule"
)

// Format represents the output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format name, defaulting to table.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be table or json)", s)
}

// Plan is a schedule preview: what a run would commit, before any I/O.
type Plan struct {
	Policy   string
	Seed     int64
	Repos    []string
	Schedule schedule.Schedule
}

// Formatter renders results and plans to a writer.
type Formatter interface {
	FormatResult(result *model.RunResult, w io.Writer) error
	FormatPlan(plan Plan, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format.
func NewFormatter(format Format) Formatter {
	if format == FormatJSON {
		return &JSONFormatter{Pretty: true}
	}
	return &TableFormatter{}
}
