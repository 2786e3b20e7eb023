package ui_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/ui"
)

const (
	testWorkingDirectoryConstant = "/workspace/repo"
)

func newObservedEventLogger(testInstance *testing.T) (*ui.ConsoleCommandEventLogger, *observer.ObservedLogs) {
	testInstance.Helper()
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	return ui.NewConsoleCommandEventLogger(zap.New(observerCore)), observedLogs
}

func branchDeletionCommand() execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"branch", "--delete", "feature-x"},
			WorkingDirectory: testWorkingDirectoryConstant,
		},
	}
}

func TestConsoleCommandEventLoggerLogsLifecycle(testInstance *testing.T) {
	testCases := []struct {
		name            string
		emit            func(eventLogger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandStarted(branchDeletionCommand())
			},
			expectedLevel:   zap.InfoLevel,
			expectedMessage: "Removing local branch feature-x in /workspace/repo",
		},
		{
			name: "command_completed",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(branchDeletionCommand(), execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zap.InfoLevel,
			expectedMessage: "Removed local branch feature-x in /workspace/repo",
		},
		{
			name: "command_failed_exit_code",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(branchDeletionCommand(), execshell.ExecutionResult{ExitCode: 1, StandardError: "branch not fully merged"})
			},
			expectedLevel:   zap.WarnLevel,
			expectedMessage: "Removal of local branch feature-x in /workspace/repo failed with exit code 1: branch not fully merged",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			eventLogger, observedLogs := newObservedEventLogger(testInstance)

			testCase.emit(eventLogger)

			logEntries := observedLogs.All()
			require.Len(testInstance, logEntries, 1)
			require.Equal(testInstance, testCase.expectedLevel, logEntries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, logEntries[0].Message)
		})
	}
}
