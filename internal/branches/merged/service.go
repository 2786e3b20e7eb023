package merged

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/branchctl/internal/shared"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	branchNameRequiredMessageConstant       = "branch name must be provided"
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrBranchNameRequired indicates the branch name option was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// Dependencies enumerates external collaborators required for merge checks.
type Dependencies struct {
	RepositoryManager shared.GitRepositoryManager
}

// Options configures a merge status query.
type Options struct {
	RepositoryPath string
	BranchName     string
}

// Service determines whether a branch has been merged into any other branch.
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

// IsMerged reports whether any branch other than the named one contains its
// tip commit. The branch itself always contains its own tip, so it is excluded
// from the containing set before the emptiness check.
func (service *Service) IsMerged(executionContext context.Context, options Options) (bool, error) {
	trimmedBranchName := strings.TrimSpace(options.BranchName)
	if len(trimmedBranchName) == 0 {
		return false, ErrBranchNameRequired
	}

	containingBranches, listError := service.repositoryManager.ListBranchesContaining(executionContext, options.RepositoryPath, trimmedBranchName)
	if listError != nil {
		return false, listError
	}

	for _, containingBranch := range containingBranches {
		if strings.EqualFold(containingBranch, trimmedBranchName) {
			continue
		}
		return true, nil
	}

	return false, nil
}
