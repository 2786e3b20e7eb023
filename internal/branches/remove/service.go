package remove

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/branchctl/internal/branches/merged"
	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	repositoryManagerMissingMessageConstant  = "repository manager not configured"
	existenceCheckerMissingMessageConstant   = "branch existence checker not configured"
	mergeCheckerMissingMessageConstant       = "merge status checker not configured"
	branchNameRequiredMessageConstant        = "branch name must be provided"
	deletionDeclinedMessageConstant          = "branch deletion declined"
	protectedBranchErrorTemplateConstant     = "branch %s is the default branch %s and cannot be deleted"
	defaultBranchResolutionTemplateConstant  = "failed to resolve default branch: %w"
	defaultBranchSwitchTemplateConstant      = "failed to switch to default branch %s: %w"
	existenceCheckFailureTemplateConstant    = "failed to check branch existence: %w"
	mergeCheckFailureTemplateConstant        = "failed to check merge status: %w"
	localDeletionFailureTemplateConstant     = "failed to delete local branch %s: %w"
	remoteDeletionFailureTemplateConstant    = "failed to delete remote branch %s: %w"
	confirmationPromptTemplateConstant       = "Delete branch %s? [y/N]: "
	forcedConfirmationPromptTemplateConstant = "Force delete branch %s? [y/N]: "
)

// Reason explains how a deletion attempt concluded.
type Reason string

// Deletion outcome reasons.
const (
	ReasonSuccess         Reason = "deleted"
	ReasonForced          Reason = "force_deleted"
	ReasonNotFound        Reason = "not_found"
	ReasonUnmergedBlocked Reason = "unmerged_blocked"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrExistenceCheckerNotConfigured indicates the branch existence dependency was missing.
var ErrExistenceCheckerNotConfigured = errors.New(existenceCheckerMissingMessageConstant)

// ErrMergeCheckerNotConfigured indicates the merge status dependency was missing.
var ErrMergeCheckerNotConfigured = errors.New(mergeCheckerMissingMessageConstant)

// ErrBranchNameRequired indicates the branch name option was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrDeletionDeclined indicates the operator rejected the confirmation prompt.
var ErrDeletionDeclined = errors.New(deletionDeclinedMessageConstant)

// ProtectedBranchError reports an attempt to delete the default branch.
type ProtectedBranchError struct {
	BranchName    string
	DefaultBranch string
}

// Error describes the protected branch violation.
func (protectionError ProtectedBranchError) Error() string {
	return fmt.Sprintf(protectedBranchErrorTemplateConstant, protectionError.BranchName, protectionError.DefaultBranch)
}

// ExistenceChecker answers scoped branch existence queries.
type ExistenceChecker interface {
	Exists(executionContext context.Context, options resolve.Options) (bool, error)
}

// MergeStatusChecker answers branch reachability queries.
type MergeStatusChecker interface {
	IsMerged(executionContext context.Context, options merged.Options) (bool, error)
}

// Dependencies enumerates external collaborators required for branch deletion.
// A nil Prompter disables interactive confirmation.
type Dependencies struct {
	RepositoryManager shared.GitRepositoryManager
	ExistenceChecker  ExistenceChecker
	MergeChecker      MergeStatusChecker
	Prompter          shared.ConfirmationPrompter
}

// Options configures a branch deletion attempt.
type Options struct {
	RepositoryPath  string
	BranchName      string
	Force           bool
	DeleteRemote    bool
	RemoteName      string
	SwitchToDefault bool
}

// Outcome captures the observable results of a deletion attempt.
type Outcome struct {
	BranchName    string
	DefaultBranch string
	LocalDeleted  bool
	RemoteDeleted bool
	Reason        Reason
}

// Service deletes branches after guard evaluation.
type Service struct {
	repositoryManager shared.GitRepositoryManager
	existenceChecker  ExistenceChecker
	mergeChecker      MergeStatusChecker
	prompter          shared.ConfirmationPrompter
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.ExistenceChecker == nil {
		return nil, ErrExistenceCheckerNotConfigured
	}
	if dependencies.MergeChecker == nil {
		return nil, ErrMergeCheckerNotConfigured
	}
	return &Service{
		repositoryManager: dependencies.RepositoryManager,
		existenceChecker:  dependencies.ExistenceChecker,
		mergeChecker:      dependencies.MergeChecker,
		prompter:          dependencies.Prompter,
	}, nil
}

// Delete runs the guarded deletion sequence. Guard failures return errors
// before any repository mutation; a blocked unmerged branch is an outcome,
// not an error.
func (service *Service) Delete(executionContext context.Context, options Options) (Outcome, error) {
	trimmedBranchName := strings.TrimSpace(options.BranchName)
	if len(trimmedBranchName) == 0 {
		return Outcome{}, ErrBranchNameRequired
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.DefaultRemoteNameConstant
	}

	defaultBranch, resolutionError := service.repositoryManager.ResolveDefaultBranch(executionContext, options.RepositoryPath, remoteName)
	if resolutionError != nil {
		return Outcome{}, fmt.Errorf(defaultBranchResolutionTemplateConstant, resolutionError)
	}

	if strings.EqualFold(trimmedBranchName, defaultBranch) {
		return Outcome{}, ProtectedBranchError{BranchName: trimmedBranchName, DefaultBranch: defaultBranch}
	}

	if confirmationError := service.confirmDeletion(trimmedBranchName, options.Force); confirmationError != nil {
		return Outcome{}, confirmationError
	}

	if options.SwitchToDefault {
		if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, options.RepositoryPath, defaultBranch); checkoutError != nil {
			return Outcome{}, fmt.Errorf(defaultBranchSwitchTemplateConstant, defaultBranch, checkoutError)
		}
	}

	outcome := Outcome{BranchName: trimmedBranchName, DefaultBranch: defaultBranch}

	branchExists, existenceError := service.existenceChecker.Exists(executionContext, resolve.Options{
		RepositoryPath: options.RepositoryPath,
		BranchName:     trimmedBranchName,
		LocalOnly:      true,
	})
	if existenceError != nil {
		return Outcome{}, fmt.Errorf(existenceCheckFailureTemplateConstant, existenceError)
	}

	switch {
	case !branchExists:
		outcome.Reason = ReasonNotFound
	case options.Force:
		if deletionError := service.repositoryManager.DeleteLocalBranch(executionContext, options.RepositoryPath, trimmedBranchName, true); deletionError != nil {
			return Outcome{}, fmt.Errorf(localDeletionFailureTemplateConstant, trimmedBranchName, deletionError)
		}
		outcome.LocalDeleted = true
		outcome.Reason = ReasonForced
	default:
		branchMerged, mergeCheckError := service.mergeChecker.IsMerged(executionContext, merged.Options{
			RepositoryPath: options.RepositoryPath,
			BranchName:     trimmedBranchName,
		})
		if mergeCheckError != nil {
			return Outcome{}, fmt.Errorf(mergeCheckFailureTemplateConstant, mergeCheckError)
		}
		if !branchMerged {
			outcome.Reason = ReasonUnmergedBlocked
			return outcome, nil
		}
		if deletionError := service.repositoryManager.DeleteLocalBranch(executionContext, options.RepositoryPath, trimmedBranchName, false); deletionError != nil {
			return Outcome{}, fmt.Errorf(localDeletionFailureTemplateConstant, trimmedBranchName, deletionError)
		}
		outcome.LocalDeleted = true
		outcome.Reason = ReasonSuccess
	}

	if options.DeleteRemote {
		if deletionError := service.repositoryManager.DeleteRemoteBranch(executionContext, options.RepositoryPath, remoteName, trimmedBranchName); deletionError != nil {
			return Outcome{}, fmt.Errorf(remoteDeletionFailureTemplateConstant, trimmedBranchName, deletionError)
		}
		outcome.RemoteDeleted = true
	}

	return outcome, nil
}

func (service *Service) confirmDeletion(branchName string, force bool) error {
	if service.prompter == nil {
		return nil
	}

	promptTemplate := confirmationPromptTemplateConstant
	if force {
		promptTemplate = forcedConfirmationPromptTemplateConstant
	}

	confirmationResult, confirmationError := service.prompter.Confirm(fmt.Sprintf(promptTemplate, branchName))
	if confirmationError != nil {
		return confirmationError
	}
	if !confirmationResult.Confirmed {
		return ErrDeletionDeclined
	}
	return nil
}
