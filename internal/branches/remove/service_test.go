package remove_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchctl/internal/branches/merged"
	"github.com/temirov/branchctl/internal/branches/remove"
	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	testRepositoryPathConstant = "/workspace/repo"
	testRemoteNameConstant     = "origin"
	testDefaultBranchConstant  = "main"
	testBranchNameConstant     = "feature-x"

	testMergedDeletionCaseNameConstant    = "merged_branch_deleted"
	testForcedDeletionCaseNameConstant    = "forced_deletion_skips_merge_check"
	testUnmergedBlockedCaseNameConstant   = "unmerged_branch_blocked"
	testMissingBranchCaseNameConstant     = "missing_branch_vacuously_merged"
	testRemoteAfterLocalCaseNameConstant  = "remote_deleted_after_local"
	testRemoteAfterMissingCaseNameVariant = "remote_deleted_for_missing_local"
)

type recordingRepositoryManager struct {
	shared.GitRepositoryManager

	defaultBranch      string
	resolveError       error
	checkedOutBranches []string
	localDeletions     []string
	forcedDeletions    []bool
	remoteDeletions    []string
	resolveCallCount   int
}

func (manager *recordingRepositoryManager) ResolveDefaultBranch(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	manager.resolveCallCount++
	if manager.resolveError != nil {
		return "", manager.resolveError
	}
	return manager.defaultBranch, nil
}

func (manager *recordingRepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	manager.checkedOutBranches = append(manager.checkedOutBranches, branchName)
	return nil
}

func (manager *recordingRepositoryManager) DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string, force bool) error {
	manager.localDeletions = append(manager.localDeletions, branchName)
	manager.forcedDeletions = append(manager.forcedDeletions, force)
	return nil
}

func (manager *recordingRepositoryManager) DeleteRemoteBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	manager.remoteDeletions = append(manager.remoteDeletions, remoteName+"/"+branchName)
	return nil
}

type stubExistenceChecker struct {
	exists    bool
	callCount int
}

func (checker *stubExistenceChecker) Exists(executionContext context.Context, options resolve.Options) (bool, error) {
	checker.callCount++
	return checker.exists, nil
}

type stubMergeChecker struct {
	isMerged  bool
	callCount int
}

func (checker *stubMergeChecker) IsMerged(executionContext context.Context, options merged.Options) (bool, error) {
	checker.callCount++
	return checker.isMerged, nil
}

type scriptedPrompter struct {
	confirmed     bool
	promptedTexts []string
}

func (prompter *scriptedPrompter) Confirm(prompt string) (shared.ConfirmationResult, error) {
	prompter.promptedTexts = append(prompter.promptedTexts, prompt)
	return shared.ConfirmationResult{Confirmed: prompter.confirmed}, nil
}

func newServiceUnderTest(testInstance *testing.T, manager *recordingRepositoryManager, existence *stubExistenceChecker, mergeChecker *stubMergeChecker, prompter shared.ConfirmationPrompter) *remove.Service {
	testInstance.Helper()
	service, creationError := remove.NewService(remove.Dependencies{
		RepositoryManager: manager,
		ExistenceChecker:  existence,
		MergeChecker:      mergeChecker,
		Prompter:          prompter,
	})
	require.NoError(testInstance, creationError)
	return service
}

func TestDeleteOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		branchExists          bool
		branchMerged          bool
		force                 bool
		deleteRemote          bool
		expectedReason        remove.Reason
		expectedLocalDeleted  bool
		expectedRemoteDeleted bool
		expectedForcedFlag    bool
		expectMergeCheck      bool
	}{
		{
			name:                 testMergedDeletionCaseNameConstant,
			branchExists:         true,
			branchMerged:         true,
			expectedReason:       remove.ReasonSuccess,
			expectedLocalDeleted: true,
			expectMergeCheck:     true,
		},
		{
			name:                 testForcedDeletionCaseNameConstant,
			branchExists:         true,
			force:                true,
			expectedReason:       remove.ReasonForced,
			expectedLocalDeleted: true,
			expectedForcedFlag:   true,
		},
		{
			name:             testUnmergedBlockedCaseNameConstant,
			branchExists:     true,
			branchMerged:     false,
			deleteRemote:     true,
			expectedReason:   remove.ReasonUnmergedBlocked,
			expectMergeCheck: true,
		},
		{
			name:           testMissingBranchCaseNameConstant,
			branchExists:   false,
			expectedReason: remove.ReasonNotFound,
		},
		{
			name:                  testRemoteAfterLocalCaseNameConstant,
			branchExists:          true,
			branchMerged:          true,
			deleteRemote:          true,
			expectedReason:        remove.ReasonSuccess,
			expectedLocalDeleted:  true,
			expectedRemoteDeleted: true,
			expectMergeCheck:      true,
		},
		{
			name:                  testRemoteAfterMissingCaseNameVariant,
			branchExists:          false,
			deleteRemote:          true,
			expectedReason:        remove.ReasonNotFound,
			expectedRemoteDeleted: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryManager := &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}
			existenceChecker := &stubExistenceChecker{exists: testCase.branchExists}
			mergeChecker := &stubMergeChecker{isMerged: testCase.branchMerged}
			service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker, mergeChecker, nil)

			outcome, deletionError := service.Delete(context.Background(), remove.Options{
				RepositoryPath: testRepositoryPathConstant,
				BranchName:     testBranchNameConstant,
				Force:          testCase.force,
				DeleteRemote:   testCase.deleteRemote,
				RemoteName:     testRemoteNameConstant,
			})

			require.NoError(testInstance, deletionError)
			require.Equal(testInstance, testCase.expectedReason, outcome.Reason)
			require.Equal(testInstance, testCase.expectedLocalDeleted, outcome.LocalDeleted)
			require.Equal(testInstance, testCase.expectedRemoteDeleted, outcome.RemoteDeleted)
			require.Equal(testInstance, testDefaultBranchConstant, outcome.DefaultBranch)

			if testCase.expectedLocalDeleted {
				require.Equal(testInstance, []string{testBranchNameConstant}, repositoryManager.localDeletions)
				require.Equal(testInstance, []bool{testCase.expectedForcedFlag}, repositoryManager.forcedDeletions)
			} else {
				require.Empty(testInstance, repositoryManager.localDeletions)
			}

			if testCase.expectedRemoteDeleted {
				require.Equal(testInstance, []string{testRemoteNameConstant + "/" + testBranchNameConstant}, repositoryManager.remoteDeletions)
			} else {
				require.Empty(testInstance, repositoryManager.remoteDeletions)
			}

			if testCase.expectMergeCheck {
				require.Equal(testInstance, 1, mergeChecker.callCount)
			} else {
				require.Zero(testInstance, mergeChecker.callCount)
			}
		})
	}
}

func TestDeleteGuardsDefaultBranch(testInstance *testing.T) {
	flagCombinations := []struct {
		name         string
		force        bool
		deleteRemote bool
	}{
		{name: "plain_deletion", force: false, deleteRemote: false},
		{name: "forced_deletion", force: true, deleteRemote: false},
		{name: "remote_deletion", force: false, deleteRemote: true},
		{name: "forced_remote_deletion", force: true, deleteRemote: true},
	}

	for _, flagCombination := range flagCombinations {
		testInstance.Run(flagCombination.name, func(testInstance *testing.T) {
			repositoryManager := &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}
			existenceChecker := &stubExistenceChecker{exists: true}
			mergeChecker := &stubMergeChecker{isMerged: true}
			service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker, mergeChecker, nil)

			_, deletionError := service.Delete(context.Background(), remove.Options{
				RepositoryPath: testRepositoryPathConstant,
				BranchName:     "MAIN",
				Force:          flagCombination.force,
				DeleteRemote:   flagCombination.deleteRemote,
			})

			var protectionError remove.ProtectedBranchError
			require.ErrorAs(testInstance, deletionError, &protectionError)
			require.Equal(testInstance, "MAIN", protectionError.BranchName)
			require.Equal(testInstance, testDefaultBranchConstant, protectionError.DefaultBranch)
			require.Empty(testInstance, repositoryManager.localDeletions)
			require.Empty(testInstance, repositoryManager.remoteDeletions)
			require.Empty(testInstance, repositoryManager.checkedOutBranches)
			require.Zero(testInstance, existenceChecker.callCount)
		})
	}
}

func TestDeleteSwitchesToDefaultBranchBeforeDeleting(testInstance *testing.T) {
	repositoryManager := &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}
	existenceChecker := &stubExistenceChecker{exists: true}
	mergeChecker := &stubMergeChecker{isMerged: true}
	service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker, mergeChecker, nil)

	outcome, deletionError := service.Delete(context.Background(), remove.Options{
		RepositoryPath:  testRepositoryPathConstant,
		BranchName:      testBranchNameConstant,
		SwitchToDefault: true,
	})

	require.NoError(testInstance, deletionError)
	require.Equal(testInstance, remove.ReasonSuccess, outcome.Reason)
	require.Equal(testInstance, []string{testDefaultBranchConstant}, repositoryManager.checkedOutBranches)
}

func TestDeleteConfirmationGate(testInstance *testing.T) {
	testInstance.Run("declined_confirmation_aborts", func(testInstance *testing.T) {
		repositoryManager := &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}
		existenceChecker := &stubExistenceChecker{exists: true}
		mergeChecker := &stubMergeChecker{isMerged: true}
		prompter := &scriptedPrompter{confirmed: false}
		service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker, mergeChecker, prompter)

		_, deletionError := service.Delete(context.Background(), remove.Options{
			RepositoryPath: testRepositoryPathConstant,
			BranchName:     testBranchNameConstant,
		})

		require.ErrorIs(testInstance, deletionError, remove.ErrDeletionDeclined)
		require.Empty(testInstance, repositoryManager.localDeletions)
		require.Empty(testInstance, repositoryManager.remoteDeletions)
		require.Len(testInstance, prompter.promptedTexts, 1)
	})

	testInstance.Run("accepted_confirmation_proceeds", func(testInstance *testing.T) {
		repositoryManager := &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}
		existenceChecker := &stubExistenceChecker{exists: true}
		mergeChecker := &stubMergeChecker{isMerged: true}
		prompter := &scriptedPrompter{confirmed: true}
		service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker, mergeChecker, prompter)

		outcome, deletionError := service.Delete(context.Background(), remove.Options{
			RepositoryPath: testRepositoryPathConstant,
			BranchName:     testBranchNameConstant,
		})

		require.NoError(testInstance, deletionError)
		require.Equal(testInstance, remove.ReasonSuccess, outcome.Reason)
		require.True(testInstance, outcome.LocalDeleted)
	})

	testInstance.Run("nil_prompter_skips_confirmation", func(testInstance *testing.T) {
		repositoryManager := &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}
		existenceChecker := &stubExistenceChecker{exists: true}
		mergeChecker := &stubMergeChecker{isMerged: true}
		service := newServiceUnderTest(testInstance, repositoryManager, existenceChecker, mergeChecker, nil)

		outcome, deletionError := service.Delete(context.Background(), remove.Options{
			RepositoryPath: testRepositoryPathConstant,
			BranchName:     testBranchNameConstant,
		})

		require.NoError(testInstance, deletionError)
		require.True(testInstance, outcome.LocalDeleted)
	})
}

func TestDeleteRequiresBranchName(testInstance *testing.T) {
	service := newServiceUnderTest(testInstance, &recordingRepositoryManager{defaultBranch: testDefaultBranchConstant}, &stubExistenceChecker{}, &stubMergeChecker{}, nil)

	_, deletionError := service.Delete(context.Background(), remove.Options{RepositoryPath: testRepositoryPathConstant})

	require.ErrorIs(testInstance, deletionError, remove.ErrBranchNameRequired)
}
