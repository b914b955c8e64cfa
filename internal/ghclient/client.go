// Package ghclient wraps the GitHub API for the handful of calls backfill
// needs: token verification, repository checks, and default-branch lookup.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/stavrop/backfill/internal/log"
)

// ErrRepoNotFound means the repository does not exist or the token cannot
// see it.
var ErrRepoNotFound = errors.New("repository not found")

// Client wraps the GitHub API client.
type Client struct {
	client *gh.Client
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

// NewClient creates a GitHub client authenticated with a personal access
// token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		client: gh.NewClient(oauth2.NewClient(ctx, ts)),
		token:  token,
	}, nil
}

// AuthenticatedUser returns the login of the token's user, verifying the
// token works at all.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}
	return user.GetLogin(), nil
}

// RepoInfo describes a verified target repository.
type RepoInfo struct {
	FullName      string
	DefaultBranch string
	Pushable      bool
	Private       bool
}

// Repo fetches a repository, reporting ErrRepoNotFound for 404s so callers
// can distinguish missing repositories from transport failures.
func (c *Client) Repo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	r, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s", ErrRepoNotFound, owner, repo)
		}
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", owner, repo, err)
	}

	info := &RepoInfo{
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		Pushable:      r.GetPermissions()["push"],
		Private:       r.GetPrivate(),
	}
	log.Debug("fetched repository", "repo", info.FullName, "default_branch", info.DefaultBranch, "pushable", info.Pushable)
	return info, nil
}

// DefaultBranch resolves a repository's default branch, returning empty on
// any failure so callers can fall back to a fixed branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) string {
	info, err := c.Repo(ctx, owner, repo)
	if err != nil {
		log.Debug("default branch lookup failed", "repo", owner+"/"+repo, "error", err)
		return ""
	}
	return info.DefaultBranch
}
