package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local fake GitHub API.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ghc := gh.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	ghc.BaseURL = base

	return &Client{client: ghc, token: "test-token"}
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestAuthenticatedUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		fmt.Fprint(w, `{"login": "octocat"}`)
	}))

	login, err := client.AuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}

func TestRepo(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/scratch", r.URL.Path)
		fmt.Fprint(w, `{
			"full_name": "octocat/scratch",
			"default_branch": "develop",
			"private": true,
			"permissions": {"push": true, "pull": true}
		}`)
	}))

	info, err := client.Repo(context.Background(), "octocat", "scratch")
	require.NoError(t, err)
	assert.Equal(t, "octocat/scratch", info.FullName)
	assert.Equal(t, "develop", info.DefaultBranch)
	assert.True(t, info.Pushable)
	assert.True(t, info.Private)
}

func TestRepoNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.Repo(context.Background(), "octocat", "gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepoNotFound))
	assert.Contains(t, err.Error(), "octocat/gone")
}

func TestRepoNoPushAccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"full_name": "someone/else",
			"default_branch": "main",
			"permissions": {"push": false, "pull": true}
		}`)
	}))

	info, err := client.Repo(context.Background(), "someone", "else")
	require.NoError(t, err)
	assert.False(t, info.Pushable)
}

func TestDefaultBranch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "octocat/scratch", "default_branch": "trunk"}`)
	}))

	assert.Equal(t, "trunk", client.DefaultBranch(context.Background(), "octocat", "scratch"))
}

func TestDefaultBranchFallsBackToEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	assert.Equal(t, "", client.DefaultBranch(context.Background(), "octocat", "gone"))
}
