package prmerge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/gitrepo"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	commandUseConstant                    = "pr-merge <head> <base>"
	commandShortDescriptionConstant       = "Merge a pull request head branch into its base branch locally"
	commandLongDescriptionConstant        = "pr-merge synchronizes the head and base branches with the remote, merges base into head, then merges head into base. Conflicts pause the merge for manual resolution."
	commandExecutionErrorTemplateConstant = "pull request merge failed: %w"
	missingArgumentsMessageConstant       = "pr-merge requires head and base branch name arguments"
	flagRemoteNameConstant                = "remote-name"
	flagRemoteNameDescriptionConstant     = "Name of the remote to synchronize with"
	flagPushNameConstant                  = "push"
	flagPushDescriptionConstant           = "Push the base branch to the remote after merging"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "Path to the repository working copy"
	expectedArgumentCountConstant         = 2
)

var errMissingArguments = errors.New(missingArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies command configuration values.
type ConfigurationProvider func() CommandConfiguration

// ResultPrinter renders a merge result for the operator.
type ResultPrinter interface {
	PrintMergeResult(command *cobra.Command, result Result)
}

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the Cobra command for pull request merges.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	CommandEventObserverProvider CommandEventObserverProvider
	Executor                     shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	ResultPrinter                ResultPrinter
	WorkingDirectory             string
}

// Build constructs the pr-merge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(expectedArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().String(flagRemoteNameConstant, configuration.RemoteName, flagRemoteNameDescriptionConstant)
	command.Flags().Bool(flagPushNameConstant, configuration.PushBase, flagPushDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, builder.WorkingDirectory, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != expectedArgumentCountConstant {
		return errMissingArguments
	}

	options := builder.parseOptions(command, arguments[0], arguments[1])

	repositoryManager, managerError := builder.resolveRepositoryManager()
	if managerError != nil {
		return managerError
	}

	existenceService, existenceServiceError := resolve.NewService(resolve.Dependencies{RepositoryManager: repositoryManager})
	if existenceServiceError != nil {
		return existenceServiceError
	}

	service, serviceError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		ExistenceChecker:  existenceService,
	})
	if serviceError != nil {
		return serviceError
	}

	result, mergeError := service.Merge(command.Context(), options)
	if mergeError != nil {
		var dirtyError DirtyWorkingTreeError
		if errors.As(mergeError, &dirtyError) {
			return mergeError
		}
		var notFoundError BranchNotFoundError
		if errors.As(mergeError, &notFoundError) {
			return mergeError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, mergeError)
	}

	if builder.ResultPrinter != nil {
		builder.ResultPrinter.PrintMergeResult(command, result)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, headBranch string, baseBranch string) Options {
	remoteNameValue, _ := command.Flags().GetString(flagRemoteNameConstant)
	pushValue, _ := command.Flags().GetBool(flagPushNameConstant)
	repositoryPathValue, _ := command.Flags().GetString(flagRepositoryNameConstant)

	trimmedRepositoryPath := strings.TrimSpace(repositoryPathValue)
	if len(trimmedRepositoryPath) == 0 {
		trimmedRepositoryPath = builder.WorkingDirectory
	}

	return Options{
		RepositoryPath: trimmedRepositoryPath,
		HeadBranch:     headBranch,
		BaseBranch:     baseBranch,
		RemoteName:     strings.TrimSpace(remoteNameValue),
		PushBase:       pushValue,
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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
