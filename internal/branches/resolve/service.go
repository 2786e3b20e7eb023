package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/branchctl/internal/shared"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	branchNameRequiredMessageConstant       = "branch name must be provided"
	scopeSelectionConflictMessageConstant   = "local and remote scopes are mutually exclusive"
	branchNameSeparatorConstant             = "/"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrBranchNameRequired indicates the branch name option was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrScopeSelectionConflict indicates both scope restrictions were requested at once.
var ErrScopeSelectionConflict = errors.New(scopeSelectionConflictMessageConstant)

// Dependencies enumerates external collaborators required for existence queries.
type Dependencies struct {
	RepositoryManager shared.GitRepositoryManager
}

// Options configures a branch existence query.
type Options struct {
	RepositoryPath string
	BranchName     string
	LocalOnly      bool
	RemoteOnly     bool
}

// Service answers branch existence queries against repository references.
type Service struct {
	repositoryManager shared.GitRepositoryManager
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	return &Service{repositoryManager: dependencies.RepositoryManager}, nil
}

// Exists reports whether a branch with the requested name exists in the
// requested scope. Scope conflicts fail before any git invocation.
func (service *Service) Exists(executionContext context.Context, options Options) (bool, error) {
	if options.LocalOnly && options.RemoteOnly {
		return false, ErrScopeSelectionConflict
	}

	trimmedBranchName := strings.TrimSpace(options.BranchName)
	if len(trimmedBranchName) == 0 {
		return false, ErrBranchNameRequired
	}

	branchReferences, listError := service.repositoryManager.ListBranchReferences(executionContext, options.RepositoryPath)
	if listError != nil {
		return false, listError
	}

	for _, branchReference := range branchReferences {
		if options.LocalOnly && branchReference.Scope != shared.BranchScopeLocal {
			continue
		}
		if options.RemoteOnly && branchReference.Scope != shared.BranchScopeRemote {
			continue
		}
		if leafMatches(branchReference.Name, trimmedBranchName) {
			return true, nil
		}
	}

	return false, nil
}

// leafMatches compares the final path component of a reference name with the
// requested branch name, ignoring case.
func leafMatches(referenceName string, branchName string) bool {
	leafName := referenceName
	if separatorIndex := strings.LastIndex(referenceName, branchNameSeparatorConstant); separatorIndex >= 0 {
		leafName = referenceName[separatorIndex+1:]
	}
	return strings.EqualFold(leafName, branchName)
}
