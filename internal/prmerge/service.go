package prmerge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	existenceCheckerMissingMessageConstant  = "branch existence checker not configured"
	headBranchRequiredMessageConstant       = "head branch must be provided"
	baseBranchRequiredMessageConstant       = "base branch must be provided"
	dirtyWorkingTreeErrorTemplateConstant   = "working tree at %s has uncommitted changes"
	branchNotFoundErrorTemplateConstant     = "branch %s not found locally or on the remote"
	cleanVerificationTemplateConstant       = "failed to verify clean worktree: %w"
	fetchFailureTemplateConstant            = "failed to fetch from remote %s: %w"
	branchPreparationTemplateConstant       = "failed to prepare branch %s: %w"
	checkoutFailureTemplateConstant         = "failed to checkout branch %s: %w"
	mergeFailureTemplateConstant            = "failed to merge %s into %s: %w"
	pushFailureTemplateConstant             = "failed to push branch %s to remote %s: %w"
)

// State identifies how a merge invocation concluded.
type State string

// Merge states.
const (
	StateMerged          State = "merged"
	StateConflictPending State = "conflict_pending"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrExistenceCheckerNotConfigured indicates the branch existence dependency was missing.
var ErrExistenceCheckerNotConfigured = errors.New(existenceCheckerMissingMessageConstant)

// ErrHeadBranchRequired indicates the head branch option was empty.
var ErrHeadBranchRequired = errors.New(headBranchRequiredMessageConstant)

// ErrBaseBranchRequired indicates the base branch option was empty.
var ErrBaseBranchRequired = errors.New(baseBranchRequiredMessageConstant)

// DirtyWorkingTreeError reports uncommitted changes blocking the merge.
type DirtyWorkingTreeError struct {
	RepositoryPath string
}

// Error describes the dirty working tree.
func (dirtyError DirtyWorkingTreeError) Error() string {
	return fmt.Sprintf(dirtyWorkingTreeErrorTemplateConstant, dirtyError.RepositoryPath)
}

// BranchNotFoundError reports a branch absent from both scopes.
type BranchNotFoundError struct {
	BranchName string
}

// Error describes the missing branch.
func (notFoundError BranchNotFoundError) Error() string {
	return fmt.Sprintf(branchNotFoundErrorTemplateConstant, notFoundError.BranchName)
}

// ExistenceChecker answers scoped branch existence queries.
type ExistenceChecker interface {
	Exists(executionContext context.Context, options resolve.Options) (bool, error)
}

// Dependencies enumerates external collaborators required for merging.
type Dependencies struct {
	RepositoryManager shared.GitRepositoryManager
	ExistenceChecker  ExistenceChecker
}

// Options configures a pull request merge.
type Options struct {
	RepositoryPath string
	HeadBranch     string
	BaseBranch     string
	RemoteName     string
	PushBase       bool
}

// Result captures the observable outcome of a merge invocation.
type Result struct {
	HeadBranch string
	BaseBranch string
	State      State
	BasePushed bool
}

// Service merges pull request branches through local git operations.
type Service struct {
	repositoryManager shared.GitRepositoryManager
	existenceChecker  ExistenceChecker
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.ExistenceChecker == nil {
		return nil, ErrExistenceCheckerNotConfigured
	}
	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		existenceChecker:  dependencies.ExistenceChecker,
	}, nil
}

// Merge runs the merge protocol. A conflict while merging base into head is
// reported through StateConflictPending with a nil error; every other failure
// is an error with no further steps executed.
func (service *Service) Merge(executionContext context.Context, options Options) (Result, error) {
	headBranch := strings.TrimSpace(options.HeadBranch)
	if len(headBranch) == 0 {
		return Result{}, ErrHeadBranchRequired
	}

	baseBranch := strings.TrimSpace(options.BaseBranch)
	if len(baseBranch) == 0 {
		return Result{}, ErrBaseBranchRequired
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.DefaultRemoteNameConstant
	}

	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, options.RepositoryPath)
	if cleanError != nil {
		return Result{}, fmt.Errorf(cleanVerificationTemplateConstant, cleanError)
	}
	if !clean {
		return Result{}, DirtyWorkingTreeError{RepositoryPath: options.RepositoryPath}
	}

	if fetchError := service.repositoryManager.FetchRemote(executionContext, options.RepositoryPath, remoteName); fetchError != nil {
		return Result{}, fmt.Errorf(fetchFailureTemplateConstant, remoteName, fetchError)
	}

	for _, branchName := range []string{baseBranch, headBranch} {
		if preparationError := service.prepareBranch(executionContext, options.RepositoryPath, branchName, remoteName); preparationError != nil {
			return Result{}, preparationError
		}
	}

	result := Result{HeadBranch: headBranch, BaseBranch: baseBranch}

	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, options.RepositoryPath, headBranch); checkoutError != nil {
		return Result{}, fmt.Errorf(checkoutFailureTemplateConstant, headBranch, checkoutError)
	}

	if mergeError := service.repositoryManager.MergeBranch(executionContext, options.RepositoryPath, baseBranch); mergeError != nil {
		conflicted, conflictCheckError := service.worktreeConflicted(executionContext, options.RepositoryPath)
		if conflictCheckError != nil {
			return Result{}, conflictCheckError
		}
		if conflicted {
			result.State = StateConflictPending
			return result, nil
		}
		return Result{}, fmt.Errorf(mergeFailureTemplateConstant, baseBranch, headBranch, mergeError)
	}

	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, options.RepositoryPath, baseBranch); checkoutError != nil {
		return Result{}, fmt.Errorf(checkoutFailureTemplateConstant, baseBranch, checkoutError)
	}

	if mergeError := service.repositoryManager.MergeBranch(executionContext, options.RepositoryPath, headBranch); mergeError != nil {
		return Result{}, fmt.Errorf(mergeFailureTemplateConstant, headBranch, baseBranch, mergeError)
	}

	if options.PushBase {
		if pushError := service.repositoryManager.PushBranch(executionContext, options.RepositoryPath, remoteName, baseBranch); pushError != nil {
			return Result{}, fmt.Errorf(pushFailureTemplateConstant, baseBranch, remoteName, pushError)
		}
		result.BasePushed = true
	}

	result.State = StateMerged
	return result, nil
}

// prepareBranch makes the named branch available locally and current with the
// remote. Local branches are checked out and fast-forwarded; remote-only
// branches get a local tracking branch; absent branches fail the merge.
func (service *Service) prepareBranch(executionContext context.Context, repositoryPath string, branchName string, remoteName string) error {
	existsLocally, localError := service.existenceChecker.Exists(executionContext, resolve.Options{
		RepositoryPath: repositoryPath,
		BranchName:     branchName,
		LocalOnly:      true,
	})
	if localError != nil {
		return fmt.Errorf(branchPreparationTemplateConstant, branchName, localError)
	}

	if existsLocally {
		if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, repositoryPath, branchName); checkoutError != nil {
			return fmt.Errorf(checkoutFailureTemplateConstant, branchName, checkoutError)
		}
		if pullError := service.repositoryManager.PullFastForward(executionContext, repositoryPath); pullError != nil {
			return fmt.Errorf(branchPreparationTemplateConstant, branchName, pullError)
		}
		return nil
	}

	existsRemotely, remoteError := service.existenceChecker.Exists(executionContext, resolve.Options{
		RepositoryPath: repositoryPath,
		BranchName:     branchName,
		RemoteOnly:     true,
	})
	if remoteError != nil {
		return fmt.Errorf(branchPreparationTemplateConstant, branchName, remoteError)
	}
	if !existsRemotely {
		return BranchNotFoundError{BranchName: branchName}
	}

	if trackingError := service.repositoryManager.CreateTrackingBranch(executionContext, repositoryPath, branchName, remoteName); trackingError != nil {
		return fmt.Errorf(branchPreparationTemplateConstant, branchName, trackingError)
	}
	return nil
}

// worktreeConflicted distinguishes a merge stopped on conflicts from other
// merge failures by re-checking worktree cleanliness.
func (service *Service) worktreeConflicted(executionContext context.Context, repositoryPath string) (bool, error) {
	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if cleanError != nil {
		return false, fmt.Errorf(cleanVerificationTemplateConstant, cleanError)
	}
	return !clean, nil
}
