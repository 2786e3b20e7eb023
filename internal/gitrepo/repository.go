package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	executorNotConfiguredMessageConstant          = "git executor not configured"
	defaultBranchResolutionFailedTemplateConstant = "unable to resolve default branch on remote %s"
	currentBranchResolutionFailedMessageConstant  = "unable to determine current branch"

	statusSubcommandConstant      = "status"
	statusPorcelainFlagConstant   = "--porcelain"
	revParseSubcommandConstant    = "rev-parse"
	revParseAbbrevRefFlagConstant = "--abbrev-ref"
	headReferenceConstant         = "HEAD"
	lsRemoteSubcommandConstant    = "ls-remote"
	lsRemoteSymrefFlagConstant    = "--symref"
	forEachRefSubcommandConstant  = "for-each-ref"
	forEachRefFormatFlagConstant  = "--format=%(refname)"
	localBranchNamespaceConstant  = "refs/heads"
	remoteBranchNamespaceConstant = "refs/remotes"
	branchSubcommandConstant      = "branch"
	branchContainsFlagConstant    = "--contains"
	branchDeleteFlagConstant      = "--delete"
	branchForceFlagConstant       = "--force"
	branchTrackFlagConstant       = "--track"
	checkoutSubcommandConstant    = "checkout"
	fetchSubcommandConstant       = "fetch"
	fetchPruneFlagConstant        = "--prune"
	pullSubcommandConstant        = "pull"
	pullFastForwardFlagConstant   = "--ff-only"
	mergeSubcommandConstant       = "merge"
	mergeNoEditFlagConstant       = "--no-edit"
	pushSubcommandConstant        = "push"
	pushDeleteFlagConstant        = "--delete"
	stashSubcommandConstant       = "stash"
	stashPushSubcommandConstant   = "push"
	stashListSubcommandConstant   = "list"
	stashApplySubcommandConstant  = "apply"
	stashPopSubcommandConstant    = "pop"
	stashMessageFlagConstant      = "--message"
	stashEntryTemplateConstant    = "stash@{%d}"

	symrefLinePrefixConstant            = "ref:"
	localReferencePrefixConstant        = "refs/heads/"
	remoteReferencePrefixConstant       = "refs/remotes/"
	remoteHeadReferenceSuffixConstant   = "/HEAD"
	branchMarkerCurrentPrefixConstant   = "*"
	branchMarkerWorktreePrefixConstant  = "+"
	referenceLineFieldSeparatorConstant = "\t"
	newlineConstant                     = "\n"
)

// ErrExecutorNotConfigured indicates a repository manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// RepositoryManager issues git commands against a repository working copy.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager validates the executor dependency and builds a manager.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CheckCleanWorktree reports whether the working tree has no pending changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, statusSubcommandConstant, statusPorcelainFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// GetCurrentBranch returns the short name of the branch HEAD points at.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, revParseSubcommandConstant, revParseAbbrevRefFlagConstant, headReferenceConstant)
	if executionError != nil {
		return "", executionError
	}
	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 {
		return "", errors.New(currentBranchResolutionFailedMessageConstant)
	}
	return branchName, nil
}

// ResolveDefaultBranch queries the remote symbolic HEAD and returns the branch it points at.
func (manager *RepositoryManager) ResolveDefaultBranch(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, lsRemoteSubcommandConstant, lsRemoteSymrefFlagConstant, remoteName, headReferenceConstant)
	if executionError != nil {
		return "", executionError
	}

	for _, outputLine := range strings.Split(executionResult.StandardOutput, newlineConstant) {
		trimmedLine := strings.TrimSpace(outputLine)
		if !strings.HasPrefix(trimmedLine, symrefLinePrefixConstant) {
			continue
		}
		lineFields := strings.Fields(trimmedLine)
		if len(lineFields) < 2 {
			continue
		}
		branchName := strings.TrimPrefix(lineFields[1], localReferencePrefixConstant)
		if len(branchName) > 0 && branchName != lineFields[1] {
			return branchName, nil
		}
	}

	return "", fmt.Errorf(defaultBranchResolutionFailedTemplateConstant, remoteName)
}

// ListBranchReferences enumerates local and remote branch references. Remote
// HEAD pointers are excluded because they alias a branch rather than name one.
func (manager *RepositoryManager) ListBranchReferences(executionContext context.Context, repositoryPath string) ([]shared.BranchReference, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, forEachRefSubcommandConstant, forEachRefFormatFlagConstant, localBranchNamespaceConstant, remoteBranchNamespaceConstant)
	if executionError != nil {
		return nil, executionError
	}

	branchReferences := []shared.BranchReference{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, newlineConstant) {
		referenceName := strings.TrimSpace(outputLine)
		if index := strings.Index(referenceName, referenceLineFieldSeparatorConstant); index >= 0 {
			referenceName = referenceName[index+1:]
		}
		if len(referenceName) == 0 {
			continue
		}

		switch {
		case strings.HasPrefix(referenceName, localReferencePrefixConstant):
			branchReferences = append(branchReferences, shared.BranchReference{
				Name:  strings.TrimPrefix(referenceName, localReferencePrefixConstant),
				Scope: shared.BranchScopeLocal,
			})
		case strings.HasPrefix(referenceName, remoteReferencePrefixConstant):
			if strings.HasSuffix(referenceName, remoteHeadReferenceSuffixConstant) {
				continue
			}
			branchReferences = append(branchReferences, shared.BranchReference{
				Name:  strings.TrimPrefix(referenceName, remoteReferencePrefixConstant),
				Scope: shared.BranchScopeRemote,
			})
		}
	}

	return branchReferences, nil
}

// ListBranchesContaining returns local branches whose history includes the named branch tip.
func (manager *RepositoryManager) ListBranchesContaining(executionContext context.Context, repositoryPath string, branchName string) ([]string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, branchSubcommandConstant, branchContainsFlagConstant, branchName)
	if executionError != nil {
		return nil, executionError
	}

	containingBranches := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, newlineConstant) {
		candidateName := strings.TrimSpace(outputLine)
		candidateName = strings.TrimSpace(strings.TrimPrefix(candidateName, branchMarkerCurrentPrefixConstant))
		candidateName = strings.TrimSpace(strings.TrimPrefix(candidateName, branchMarkerWorktreePrefixConstant))
		if len(candidateName) == 0 {
			continue
		}
		containingBranches = append(containingBranches, candidateName)
	}

	return containingBranches, nil
}

// CheckoutBranch switches the working tree to an existing local branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, checkoutSubcommandConstant, branchName)
	return executionError
}

// CreateTrackingBranch creates a local branch tracking the remote branch of the same name.
func (manager *RepositoryManager) CreateTrackingBranch(executionContext context.Context, repositoryPath string, branchName string, remoteName string) error {
	remoteReference := remoteName + "/" + branchName
	_, executionError := manager.run(executionContext, repositoryPath, checkoutSubcommandConstant, branchTrackFlagConstant, remoteReference)
	return executionError
}

// DeleteLocalBranch removes a local branch, forcing removal when requested.
func (manager *RepositoryManager) DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string, force bool) error {
	commandArguments := []string{branchSubcommandConstant, branchDeleteFlagConstant}
	if force {
		commandArguments = append(commandArguments, branchForceFlagConstant)
	}
	commandArguments = append(commandArguments, branchName)
	_, executionError := manager.run(executionContext, repositoryPath, commandArguments...)
	return executionError
}

// DeleteRemoteBranch removes a branch on the named remote.
func (manager *RepositoryManager) DeleteRemoteBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, pushSubcommandConstant, remoteName, pushDeleteFlagConstant, branchName)
	return executionError
}

// FetchRemote updates remote tracking references and prunes stale ones.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, fetchSubcommandConstant, fetchPruneFlagConstant, remoteName)
	return executionError
}

// PullFastForward updates the current branch, refusing merge commits.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.run(executionContext, repositoryPath, pullSubcommandConstant, pullFastForwardFlagConstant)
	return executionError
}

// MergeBranch merges the named branch into the current branch without opening an editor.
func (manager *RepositoryManager) MergeBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, mergeSubcommandConstant, mergeNoEditFlagConstant, branchName)
	return executionError
}

// PushBranch pushes the named branch to the named remote.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, pushSubcommandConstant, remoteName, branchName)
	return executionError
}

// StashSave records working tree changes in a new stash entry.
func (manager *RepositoryManager) StashSave(executionContext context.Context, repositoryPath string, message string) error {
	commandArguments := []string{stashSubcommandConstant, stashPushSubcommandConstant}
	if len(strings.TrimSpace(message)) > 0 {
		commandArguments = append(commandArguments, stashMessageFlagConstant, message)
	}
	_, executionError := manager.run(executionContext, repositoryPath, commandArguments...)
	return executionError
}

// StashList returns the stash entries, most recent first.
func (manager *RepositoryManager) StashList(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, stashSubcommandConstant, stashListSubcommandConstant)
	if executionError != nil {
		return nil, executionError
	}

	stashEntries := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, newlineConstant) {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		stashEntries = append(stashEntries, trimmedLine)
	}

	return stashEntries, nil
}

// StashApply reapplies the stash entry at the given index without dropping it.
func (manager *RepositoryManager) StashApply(executionContext context.Context, repositoryPath string, stashIndex int) error {
	_, executionError := manager.run(executionContext, repositoryPath, stashSubcommandConstant, stashApplySubcommandConstant, formatStashEntry(stashIndex))
	return executionError
}

// StashPop reapplies the stash entry at the given index and drops it.
func (manager *RepositoryManager) StashPop(executionContext context.Context, repositoryPath string, stashIndex int) error {
	_, executionError := manager.run(executionContext, repositoryPath, stashSubcommandConstant, stashPopSubcommandConstant, formatStashEntry(stashIndex))
	return executionError
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, commandArguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        commandArguments,
		WorkingDirectory: repositoryPath,
	}
	return manager.executor.ExecuteGit(executionContext, commandDetails)
}

func formatStashEntry(stashIndex int) string {
	return fmt.Sprintf(stashEntryTemplateConstant, stashIndex)
}
