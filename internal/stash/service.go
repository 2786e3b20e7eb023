package stash

import (
	"context"
	"errors"

	"github.com/temirov/branchctl/internal/shared"
)

const (
	stashManagerMissingMessageConstant = "stash manager not configured"
	negativeStashIndexMessageConstant  = "stash index must not be negative"
)

// ErrStashManagerNotConfigured indicates the stash manager dependency was missing.
var ErrStashManagerNotConfigured = errors.New(stashManagerMissingMessageConstant)

// ErrNegativeStashIndex indicates a stash entry index below zero was requested.
var ErrNegativeStashIndex = errors.New(negativeStashIndexMessageConstant)

// Dependencies enumerates external collaborators required for stash operations.
type Dependencies struct {
	StashManager shared.StashManager
}

// Service wraps repository stash operations with argument validation.
type Service struct {
	stashManager shared.StashManager
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.StashManager == nil {
		return nil, ErrStashManagerNotConfigured
	}
	return &Service{stashManager: dependencies.StashManager}, nil
}

// Save records working tree changes in a new stash entry.
func (service *Service) Save(executionContext context.Context, repositoryPath string, message string) error {
	return service.stashManager.StashSave(executionContext, repositoryPath, message)
}

// List returns stash entries, most recent first.
func (service *Service) List(executionContext context.Context, repositoryPath string) ([]string, error) {
	return service.stashManager.StashList(executionContext, repositoryPath)
}

// Apply reapplies the stash entry at the given index without dropping it.
func (service *Service) Apply(executionContext context.Context, repositoryPath string, stashIndex int) error {
	if stashIndex < 0 {
		return ErrNegativeStashIndex
	}
	return service.stashManager.StashApply(executionContext, repositoryPath, stashIndex)
}

// Pop reapplies the stash entry at the given index and drops it.
func (service *Service) Pop(executionContext context.Context, repositoryPath string, stashIndex int) error {
	if stashIndex < 0 {
		return ErrNegativeStashIndex
	}
	return service.stashManager.StashPop(executionContext, repositoryPath, stashIndex)
}
