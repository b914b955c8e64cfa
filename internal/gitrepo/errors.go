package gitrepo

import "errors"

// Sentinel errors for the version-control boundary. Callers classify
// failures with errors.Is; the wrapped text carries redacted git output.
var (
	// ErrCloneFailed means the repository could not be cloned: it does not
	// exist, authentication failed, or the network operation errored.
	ErrCloneFailed = errors.New("clone failed")

	// ErrArtifactWrite means the per-commit artifact file could not be
	// created inside the working copy.
	ErrArtifactWrite = errors.New("artifact write failed")

	// ErrCommitFailed means staging or commit-object creation failed.
	ErrCommitFailed = errors.New("commit failed")

	// ErrPushFailed means the remote rejected the push (remote advanced,
	// auth revoked, branch protection). Local commits are kept.
	ErrPushFailed = errors.New("push failed")
)
