// Package model defines the run-level data types shared by the scheduling,
// execution, and output layers.
package model

import (
	"fmt"
	"time"
)

// Identity is the author identity recorded on generated commits.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RunConfig is the immutable input for one run. It is assembled by the CLI
// layer from config file, flags, and environment.
type RunConfig struct {
	// Token is an opaque bearer token used for clone/push authentication.
	// It is deliberately excluded from every serialized or logged form.
	Token string `json:"-"`

	Owner  string   `json:"owner"`
	Repos  []string `json:"repos"`
	Author Identity `json:"author"`

	// Branch overrides the push branch. Empty means resolve the remote's
	// default branch via the API, falling back to "main".
	Branch string `json:"branch,omitempty"`

	// Seed fixes the schedule randomness when non-zero. Zero derives a seed
	// from the wall clock, so repeated runs differ.
	Seed int64 `json:"seed,omitempty"`

	// Workers is the number of repositories processed concurrently.
	// Values below 2 mean strictly sequential processing.
	Workers int `json:"workers,omitempty"`
}

// Validate checks the parts of the config the engine depends on.
func (c *RunConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("no token provided. Set the GITHUB_TOKEN environment variable")
	}
	if c.Owner == "" {
		return fmt.Errorf("no repository owner configured")
	}
	if len(c.Repos) == 0 {
		return fmt.Errorf("no target repositories configured")
	}
	seen := make(map[string]bool, len(c.Repos))
	for _, r := range c.Repos {
		if r == "" {
			return fmt.Errorf("empty repository name in target list")
		}
		if seen[r] {
			return fmt.Errorf("duplicate repository name: %s", r)
		}
		seen[r] = true
	}
	if c.Author.Name == "" || c.Author.Email == "" {
		return fmt.Errorf("author name and email must be configured")
	}
	return nil
}

// RemoteURL returns the HTTPS clone URL for a configured repository,
// without credentials.
func (c *RunConfig) RemoteURL(repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", c.Owner, repo)
}

// RepoState tracks where a repository is in its processing lifecycle.
// Terminal flow: Pending -> Cloned -> Committing -> Pushed | PushFailed,
// with Released always happening before the outcome is finalized.
type RepoState string

const (
	StatePending     RepoState = "pending"
	StateCloned      RepoState = "cloned"
	StateCommitting  RepoState = "committing"
	StatePushed      RepoState = "pushed"
	StatePushFailed  RepoState = "push-failed"
	StateCloneFailed RepoState = "clone-failed"
)

// DateLayout is the calendar-day key layout used throughout the run.
const DateLayout = "2006-01-02"

// DayResult records how one scheduled day went for one repository.
type DayResult struct {
	Date      time.Time `json:"date"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
}

// Outcome is the per-repository result. One Outcome is produced per
// repository per run, whether it succeeded, failed to clone, or failed
// to push.
type Outcome struct {
	Repo      string      `json:"repo"`
	State     RepoState   `json:"state"`
	Published bool        `json:"published"`
	Days      []DayResult `json:"days,omitempty"`
	Attempted int         `json:"attempted"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Err       string      `json:"error,omitempty"`
}

// RecordDay appends a day's counts and folds them into the totals.
func (o *Outcome) RecordDay(date time.Time, attempted, succeeded int) {
	o.Days = append(o.Days, DayResult{Date: date, Attempted: attempted, Succeeded: succeeded})
	o.Attempted += attempted
	o.Succeeded += succeeded
	o.Failed += attempted - succeeded
}
