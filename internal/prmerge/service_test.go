package prmerge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/prmerge"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	testRepositoryPathConstant = "/workspace/repo"
	testRemoteNameConstant     = "origin"
	testHeadBranchConstant     = "feature-x"
	testBaseBranchConstant     = "main"
)

type scriptedRepositoryManager struct {
	shared.GitRepositoryManager

	cleanWorktree        bool
	cleanAfterMerge      bool
	mergeErrors          map[string]error
	fetchedRemotes       []string
	checkedOutBranches   []string
	pulledCount          int
	trackingBranches     []string
	mergedBranches       []string
	pushedBranches       []string
	cleanCheckCount      int
	mergeAttemptedBefore bool
}

func (manager *scriptedRepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	manager.cleanCheckCount++
	if manager.mergeAttemptedBefore {
		return manager.cleanAfterMerge, nil
	}
	return manager.cleanWorktree, nil
}

func (manager *scriptedRepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	manager.fetchedRemotes = append(manager.fetchedRemotes, remoteName)
	return nil
}

func (manager *scriptedRepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	manager.checkedOutBranches = append(manager.checkedOutBranches, branchName)
	return nil
}

func (manager *scriptedRepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) error {
	manager.pulledCount++
	return nil
}

func (manager *scriptedRepositoryManager) CreateTrackingBranch(executionContext context.Context, repositoryPath string, branchName string, remoteName string) error {
	manager.trackingBranches = append(manager.trackingBranches, remoteName+"/"+branchName)
	return nil
}

func (manager *scriptedRepositoryManager) MergeBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	manager.mergeAttemptedBefore = true
	manager.mergedBranches = append(manager.mergedBranches, branchName)
	if manager.mergeErrors != nil {
		return manager.mergeErrors[branchName]
	}
	return nil
}

func (manager *scriptedRepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	manager.pushedBranches = append(manager.pushedBranches, remoteName+"/"+branchName)
	return nil
}

type scopedExistenceChecker struct {
	localBranches  map[string]bool
	remoteBranches map[string]bool
}

func (checker *scopedExistenceChecker) Exists(executionContext context.Context, options resolve.Options) (bool, error) {
	if options.LocalOnly {
		return checker.localBranches[options.BranchName], nil
	}
	if options.RemoteOnly {
		return checker.remoteBranches[options.BranchName], nil
	}
	return checker.localBranches[options.BranchName] || checker.remoteBranches[options.BranchName], nil
}

func newServiceUnderTest(testInstance *testing.T, manager *scriptedRepositoryManager, checker *scopedExistenceChecker) *prmerge.Service {
	testInstance.Helper()
	service, creationError := prmerge.NewService(prmerge.Dependencies{
		RepositoryManager: manager,
		ExistenceChecker:  checker,
	})
	require.NoError(testInstance, creationError)
	return service
}

func defaultOptions() prmerge.Options {
	return prmerge.Options{
		RepositoryPath: testRepositoryPathConstant,
		HeadBranch:     testHeadBranchConstant,
		BaseBranch:     testBaseBranchConstant,
		RemoteName:     testRemoteNameConstant,
	}
}

func TestMergeCompletesWithLocalBranches(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{cleanWorktree: true, cleanAfterMerge: true}
	existenceChecker := &scopedExistenceChecker{
		localBranches: map[string]bool{testHeadBranchConstant: true, testBaseBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	result, mergeError := service.Merge(context.Background(), defaultOptions())

	require.NoError(testInstance, mergeError)
	require.Equal(testInstance, prmerge.StateMerged, result.State)
	require.False(testInstance, result.BasePushed)
	require.Equal(testInstance, []string{testRemoteNameConstant}, repositoryManager.fetchedRemotes)
	require.Equal(testInstance, []string{testBaseBranchConstant, testHeadBranchConstant}, repositoryManager.mergedBranches)
	require.Equal(testInstance, 2, repositoryManager.pulledCount)
	require.Empty(testInstance, repositoryManager.pushedBranches)
}

func TestMergeCreatesTrackingBranchForRemoteOnlyHead(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{cleanWorktree: true, cleanAfterMerge: true}
	existenceChecker := &scopedExistenceChecker{
		localBranches:  map[string]bool{testBaseBranchConstant: true},
		remoteBranches: map[string]bool{testHeadBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	result, mergeError := service.Merge(context.Background(), defaultOptions())

	require.NoError(testInstance, mergeError)
	require.Equal(testInstance, prmerge.StateMerged, result.State)
	require.Equal(testInstance, []string{testRemoteNameConstant + "/" + testHeadBranchConstant}, repositoryManager.trackingBranches)
	require.Equal(testInstance, 1, repositoryManager.pulledCount)
}

func TestMergeFailsForAbsentBranch(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{cleanWorktree: true, cleanAfterMerge: true}
	existenceChecker := &scopedExistenceChecker{
		localBranches: map[string]bool{testBaseBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	_, mergeError := service.Merge(context.Background(), defaultOptions())

	var notFoundError prmerge.BranchNotFoundError
	require.ErrorAs(testInstance, mergeError, &notFoundError)
	require.Equal(testInstance, testHeadBranchConstant, notFoundError.BranchName)
	require.Empty(testInstance, repositoryManager.mergedBranches)
}

func TestMergeRejectsDirtyWorktreeBeforeAnyMutation(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{cleanWorktree: false}
	existenceChecker := &scopedExistenceChecker{
		localBranches: map[string]bool{testHeadBranchConstant: true, testBaseBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	_, mergeError := service.Merge(context.Background(), defaultOptions())

	var dirtyError prmerge.DirtyWorkingTreeError
	require.ErrorAs(testInstance, mergeError, &dirtyError)
	require.Equal(testInstance, testRepositoryPathConstant, dirtyError.RepositoryPath)
	require.Empty(testInstance, repositoryManager.fetchedRemotes)
	require.Empty(testInstance, repositoryManager.checkedOutBranches)
}

func TestMergeReportsConflictPendingWithoutError(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{
		cleanWorktree:   true,
		cleanAfterMerge: false,
		mergeErrors:     map[string]error{testBaseBranchConstant: errors.New("merge conflict")},
	}
	existenceChecker := &scopedExistenceChecker{
		localBranches: map[string]bool{testHeadBranchConstant: true, testBaseBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	result, mergeError := service.Merge(context.Background(), defaultOptions())

	require.NoError(testInstance, mergeError)
	require.Equal(testInstance, prmerge.StateConflictPending, result.State)
	require.Equal(testInstance, []string{testBaseBranchConstant}, repositoryManager.mergedBranches)
	require.Empty(testInstance, repositoryManager.pushedBranches)
}

func TestMergeReinvocationAfterConflictHitsCleanGate(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{cleanWorktree: false}
	repositoryManager.mergeAttemptedBefore = false
	existenceChecker := &scopedExistenceChecker{
		localBranches: map[string]bool{testHeadBranchConstant: true, testBaseBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	_, mergeError := service.Merge(context.Background(), defaultOptions())

	var dirtyError prmerge.DirtyWorkingTreeError
	require.ErrorAs(testInstance, mergeError, &dirtyError)
}

func TestMergePushesBaseWhenRequested(testInstance *testing.T) {
	repositoryManager := &scriptedRepositoryManager{cleanWorktree: true, cleanAfterMerge: true}
	existenceChecker := &scopedExistenceChecker{
		localBranches: map[string]bool{testHeadBranchConstant: true, testBaseBranchConstant: true},
	}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker)

	options := defaultOptions()
	options.PushBase = true
	result, mergeError := service.Merge(context.Background(), options)

	require.NoError(testInstance, mergeError)
	require.Equal(testInstance, prmerge.StateMerged, result.State)
	require.True(testInstance, result.BasePushed)
	require.Equal(testInstance, []string{testRemoteNameConstant + "/" + testBaseBranchConstant}, repositoryManager.pushedBranches)
}

func TestMergeValidatesBranchArguments(testInstance *testing.T) {
	service := newServiceUnderTest(testInstance, &scriptedRepositoryManager{cleanWorktree: true}, &scopedExistenceChecker{})

	_, headError := service.Merge(context.Background(), prmerge.Options{RepositoryPath: testRepositoryPathConstant, BaseBranch: testBaseBranchConstant})
	require.ErrorIs(testInstance, headError, prmerge.ErrHeadBranchRequired)

	_, baseError := service.Merge(context.Background(), prmerge.Options{RepositoryPath: testRepositoryPathConstant, HeadBranch: testHeadBranchConstant})
	require.ErrorIs(testInstance, baseError, prmerge.ErrBaseBranchRequired)
}
