package shared

import (
	"context"

	"github.com/temirov/branchctl/internal/execshell"
)

// DefaultRemoteNameConstant identifies the upstream remote assumed when none is configured.
const DefaultRemoteNameConstant = "origin"

// BranchScope identifies the namespace a branch reference belongs to.
type BranchScope string

// Supported branch scopes.
const (
	BranchScopeLocal  BranchScope = "local"
	BranchScopeRemote BranchScope = "remote"
)

// BranchReference is a parsed entry from the repository reference list. It is
// produced on demand and never cached; callers re-query to avoid staleness.
type BranchReference struct {
	Name  string
	Scope BranchScope
}

// ConfirmationResult captures the outcome of a user confirmation prompt.
type ConfirmationResult struct {
	Confirmed bool
}

// ConfirmationPrompter collects user confirmations prior to destructive actions.
// Implementations are injected so workflow services stay terminal-agnostic.
type ConfirmationPrompter interface {
	Confirm(prompt string) (ConfirmationResult, error)
}

// GitExecutor exposes the subset of shell execution used by branch services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git operations. Every method
// issues a fresh git invocation; no repository state is held between calls.
type GitRepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	ResolveDefaultBranch(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	ListBranchReferences(executionContext context.Context, repositoryPath string) ([]BranchReference, error)
	ListBranchesContaining(executionContext context.Context, repositoryPath string, branchName string) ([]string, error)
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	CreateTrackingBranch(executionContext context.Context, repositoryPath string, branchName string, remoteName string) error
	DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string, force bool) error
	DeleteRemoteBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	PullFastForward(executionContext context.Context, repositoryPath string) error
	MergeBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// StashManager exposes stash shorthands over the repository stash list.
type StashManager interface {
	StashSave(executionContext context.Context, repositoryPath string, message string) error
	StashList(executionContext context.Context, repositoryPath string) ([]string, error)
	StashApply(executionContext context.Context, repositoryPath string, stashIndex int) error
	StashPop(executionContext context.Context, repositoryPath string, stashIndex int) error
}
