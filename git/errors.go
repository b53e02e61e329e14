package git

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conditions callers branch on.
var (
	ErrNotGitRepo      = errors.New("not a git repository")
	ErrBranchExists    = errors.New("branch already exists")
	ErrNothingToCommit = errors.New("nothing to commit")
	ErrNoUpstream      = errors.New("no upstream configured")
	ErrNoTags          = errors.New("no tags found")
)

// Error wraps a failed git operation with the command output that
// explains it.
type Error struct {
	Op     string
	Output string
	Err    error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s: %s", e.Op, e.Output)
	}
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// opError builds an Error from a runner failure.
func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Output: err.Error(), Err: err}
}

// IsHostUnreachable reports whether the error text indicates the
// remote host could not be reached. Network failures on fetch, pull
// and push are demoted to warnings so local work can continue.
func IsHostUnreachable(err error) bool {
	return containsAny(err,
		"could not resolve host",
		"no such host",
		"network is unreachable",
		"connection refused",
		"connection timed out",
		"unable to access",
	)
}

// IsUpToDate reports whether a push failed only because there was
// nothing to push. Callers treat this as success.
func IsUpToDate(err error) bool {
	return containsAny(err, "everything up-to-date", "up to date")
}

// IsMergeConflict reports whether a merge stopped on conflicts.
func IsMergeConflict(err error) bool {
	return containsAny(err, "conflict", "automatic merge failed")
}

// IsAlreadyExists reports whether the error indicates a ref that
// already exists, such as a duplicate tag or branch.
func IsAlreadyExists(err error) bool {
	return containsAny(err, "already exists")
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
