package merged

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/gitrepo"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	commandUseConstant                    = "branch-merged <branch>"
	commandShortDescriptionConstant       = "Report whether a branch has been merged into another branch"
	commandLongDescriptionConstant        = "branch-merged reports whether any other branch contains the tip commit of the named branch."
	commandExecutionErrorTemplateConstant = "branch merge check failed: %w"
	missingBranchArgumentMessageConstant  = "branch-merged requires exactly one branch name argument"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "Path to the repository working copy"
)

var errMissingBranchArgument = errors.New(missingBranchArgumentMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the Cobra command for merge status checks.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandEventObserverProvider CommandEventObserverProvider
	Executor                     shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	WorkingDirectory             string
}

// Build constructs the branch-merged command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagRepositoryNameConstant, builder.WorkingDirectory, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errMissingBranchArgument
	}

	repositoryPathValue, _ := command.Flags().GetString(flagRepositoryNameConstant)
	trimmedRepositoryPath := strings.TrimSpace(repositoryPathValue)
	if len(trimmedRepositoryPath) == 0 {
		trimmedRepositoryPath = builder.WorkingDirectory
	}

	repositoryManager, managerError := builder.resolveRepositoryManager()
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(Dependencies{RepositoryManager: repositoryManager})
	if serviceError != nil {
		return serviceError
	}

	branchMerged, mergeCheckError := service.IsMerged(command.Context(), Options{
		RepositoryPath: trimmedRepositoryPath,
		BranchName:     arguments[0],
	})
	if mergeCheckError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, mergeCheckError)
	}

	fmt.Fprintln(command.OutOrStdout(), strconv.FormatBool(branchMerged))
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveRepositoryManager() (shared.GitRepositoryManager, error) {
	if builder.RepositoryManager != nil {
		return builder.RepositoryManager, nil
	}

	executor := builder.Executor
	if executor == nil {
		shellExecutor, creationError := execshell.NewShellExecutor(builder.resolveLogger(), execshell.NewOSCommandRunner())
		if creationError != nil {
			return nil, creationError
		}
		if builder.CommandEventObserverProvider != nil {
			if eventObserver := builder.CommandEventObserverProvider(); eventObserver != nil {
				shellExecutor.SetCommandEventObserver(eventObserver)
			}
		}
		executor = shellExecutor
	}

	return gitrepo.NewRepositoryManager(executor)
}
