package resolve_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchctl/internal/branches/resolve"
)

const (
	testExistingBranchArgumentConstant = "feature-x"
	testBranchFoundCaseNameConstant    = "branch_found"
	testBranchMissingCaseNameConstant  = "branch_missing"
)

func TestCommandReportsExistence(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		expectedOutput string
	}{
		{
			name:           testBranchFoundCaseNameConstant,
			arguments:      []string{testExistingBranchArgumentConstant},
			expectedOutput: "true\n",
		},
		{
			name:           testBranchMissingCaseNameConstant,
			arguments:      []string{"nonexistent"},
			expectedOutput: "false\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			commandBuilder := &resolve.CommandBuilder{
				RepositoryManager: &stubRepositoryManager{branchReferences: referenceFixture()},
				WorkingDirectory:  testRepositoryPathConstant,
			}
			command, buildError := commandBuilder.Build()
			require.NoError(testInstance, buildError)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)

			require.NoError(testInstance, command.Execute())
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestCommandRejectsConflictingScopeFlags(testInstance *testing.T) {
	commandBuilder := &resolve.CommandBuilder{
		RepositoryManager: &stubRepositoryManager{branchReferences: referenceFixture()},
		WorkingDirectory:  testRepositoryPathConstant,
	}
	command, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{testExistingBranchArgumentConstant, "--local", "--remote"})

	executionError := command.Execute()
	require.ErrorIs(testInstance, executionError, resolve.ErrScopeSelectionConflict)
}
