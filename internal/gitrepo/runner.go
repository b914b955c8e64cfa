package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/stavrop/backfill/internal/log"
)

// Runner executes git commands. The production implementation shells out to
// the git binary; tests substitute a fake to script failures without a real
// repository.
type Runner interface {
	// Run executes git with the given arguments in dir (empty dir means the
	// process working directory) and extra environment entries, returning
	// trimmed stdout.
	Run(ctx context.Context, dir string, env []string, args ...string) (string, error)
}

// ExecRunner is the default Runner backed by os/exec.
type ExecRunner struct{}

// credentialRe matches userinfo embedded in an HTTPS URL.
var credentialRe = regexp.MustCompile(`https://[^@/\s]+@`)

// Redact masks embedded credentials so tokens never reach logs or errors.
func Redact(s string) string {
	return credentialRe.ReplaceAllString(s, "https://***@")
}

func redactArgs(args []string) string {
	return Redact(strings.Join(args, " "))
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("git", "args", redactArgs(args), "dir", dir)

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], Redact(detail))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Installed reports whether the git binary is available on PATH.
func Installed() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
