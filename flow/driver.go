package flow

import "github.com/jakreymyers/myrs-git-flow/commit"

// Driver is the VCS surface the orchestrator consumes. *git.Context
// implements it; tests substitute a fake that simulates repository
// state without invoking git.
type Driver interface {
	CurrentBranch() (string, error)
	Status() ([]string, error)
	IsClean() (bool, error)
	LocalBranches() ([]string, error)
	BranchExists(name string) (bool, error)
	RemoteBranchExists(remote, name string) (bool, error)
	Checkout(name string) error
	CheckoutNew(name, start string) error
	Pull() error
	Fetch(remote string) error
	MergeNoFF(branch, message string) error
	Push(remote, branch string, setUpstream bool) error
	PushTag(remote, tag string) error
	DeleteLocalBranch(name string, force bool) error
	DeleteRemoteBranch(remote, name string) error
	CreateAnnotatedTag(name, message string) error
	LatestTag() (string, error)
	LatestTagOn(ref string) (string, error)
	LogSince(since string) ([]commit.Record, error)
	Upstream() (string, error)
	AheadBehind() (ahead, behind int, err error)
	IsAncestor(ancestor, ref string) (bool, error)
	Stage(paths ...string) error
	Commit(message string) error
	RemoteURL(remote string) (string, error)
	RunTestCommand(command string) (string, error)
	WorkDir() string
}
