package resolve

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
	commandUseConstant                    = "branch-exists <branch>"
	commandShortDescriptionConstant       = "Report whether a branch exists locally or on a remote"
	commandLongDescriptionConstant        = "branch-exists checks repository references for a branch whose name matches the final path component exactly, ignoring case."
	commandExecutionErrorTemplateConstant = "branch existence check failed: %w"
	missingBranchArgumentMessageConstant  = "branch-exists requires exactly one branch name argument"
	flagLocalNameConstant                 = "local"
	flagLocalDescriptionConstant          = "Restrict the check to local branches"
	flagRemoteNameConstant                = "remote"
	flagRemoteDescriptionConstant         = "Restrict the check to remote-tracking branches"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "Path to the repository working copy"
)

var errMissingBranchArgument = errors.New(missingBranchArgumentMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the Cobra command for branch existence checks.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandEventObserverProvider CommandEventObserverProvider
	Executor                     shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	WorkingDirectory             string
}

// Build constructs the branch-exists command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(flagLocalNameConstant, false, flagLocalDescriptionConstant)
	command.Flags().Bool(flagRemoteNameConstant, false, flagRemoteDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, builder.WorkingDirectory, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errMissingBranchArgument
	}

	options := builder.parseOptions(command, arguments[0])

	repositoryManager, managerError := builder.resolveRepositoryManager()
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(Dependencies{RepositoryManager: repositoryManager})
	if serviceError != nil {
		return serviceError
	}

	branchExists, existenceError := service.Exists(command.Context(), options)
	if existenceError != nil {
		if errors.Is(existenceError, ErrScopeSelectionConflict) {
			return existenceError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, existenceError)
	}

	fmt.Fprintln(command.OutOrStdout(), strconv.FormatBool(branchExists))
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, branchName string) Options {
	localOnlyValue, _ := command.Flags().GetBool(flagLocalNameConstant)
	remoteOnlyValue, _ := command.Flags().GetBool(flagRemoteNameConstant)
	repositoryPathValue, _ := command.Flags().GetString(flagRepositoryNameConstant)

	trimmedRepositoryPath := strings.TrimSpace(repositoryPathValue)
	if len(trimmedRepositoryPath) == 0 {
		trimmedRepositoryPath = builder.WorkingDirectory
	}

	return Options{
		RepositoryPath: trimmedRepositoryPath,
		BranchName:     branchName,
		LocalOnly:      localOnlyValue,
		RemoteOnly:     remoteOnlyValue,
	}
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
