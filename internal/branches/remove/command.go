package remove

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchctl/internal/branches/merged"
	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/gitrepo"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	commandUseConstant                    = "branch-delete <branch>"
	commandShortDescriptionConstant       = "Delete a branch unless guards block the deletion"
	commandLongDescriptionConstant        = "branch-delete removes a local branch after guarding the default branch and checking merge status, optionally removing the remote branch as well."
	commandExecutionErrorTemplateConstant = "branch deletion failed: %w"
	missingBranchArgumentMessageConstant  = "branch-delete requires exactly one branch name argument"
	flagForceNameConstant                 = "force"
	flagForceDescriptionConstant          = "Delete the branch even when it is not merged"
	flagDeleteRemoteNameConstant          = "delete-remote"
	flagDeleteRemoteDescriptionConstant   = "Also delete the branch on the remote"
	flagRemoteNameConstant                = "remote-name"
	flagRemoteNameDescriptionConstant     = "Name of the remote used for default branch resolution and remote deletion"
	flagSwitchNameConstant                = "switch"
	flagSwitchDescriptionConstant         = "Switch to the default branch before deleting"
	flagAssumeYesNameConstant             = "assume-yes"
	flagAssumeYesDescriptionConstant      = "Skip the confirmation prompt"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "Path to the repository working copy"
)

var errMissingBranchArgument = errors.New(missingBranchArgumentMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies command configuration values.
type ConfigurationProvider func() CommandConfiguration

// OutcomePrinter renders a deletion outcome for the operator.
type OutcomePrinter interface {
	PrintDeletionOutcome(command *cobra.Command, outcome Outcome)
}

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the Cobra command for guarded branch deletion.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	CommandEventObserverProvider CommandEventObserverProvider
	Executor                     shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	Prompter                     shared.ConfirmationPrompter
	OutcomePrinter               OutcomePrinter
	WorkingDirectory             string
}

// Build constructs the branch-delete command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(flagForceNameConstant, false, flagForceDescriptionConstant)
	command.Flags().Bool(flagDeleteRemoteNameConstant, configuration.DeleteRemote, flagDeleteRemoteDescriptionConstant)
	command.Flags().String(flagRemoteNameConstant, configuration.RemoteName, flagRemoteNameDescriptionConstant)
	command.Flags().Bool(flagSwitchNameConstant, configuration.SwitchToDefault, flagSwitchDescriptionConstant)
	command.Flags().Bool(flagAssumeYesNameConstant, configuration.AssumeYes, flagAssumeYesDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, builder.WorkingDirectory, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errMissingBranchArgument
	}

	options, assumeYes := builder.parseOptions(command, arguments[0])

	repositoryManager, managerError := builder.resolveRepositoryManager()
	if managerError != nil {
		return managerError
	}

	existenceService, existenceServiceError := resolve.NewService(resolve.Dependencies{RepositoryManager: repositoryManager})
	if existenceServiceError != nil {
		return existenceServiceError
	}

	mergeService, mergeServiceError := merged.NewService(merged.Dependencies{RepositoryManager: repositoryManager})
	if mergeServiceError != nil {
		return mergeServiceError
	}

	prompter := builder.Prompter
	if assumeYes {
		prompter = nil
	}

	service, serviceError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		ExistenceChecker:  existenceService,
		MergeChecker:      mergeService,
		Prompter:          prompter,
	})
	if serviceError != nil {
		return serviceError
	}

	outcome, deletionError := service.Delete(command.Context(), options)
	if deletionError != nil {
		var protectionError ProtectedBranchError
		if errors.As(deletionError, &protectionError) {
			return deletionError
		}
		if errors.Is(deletionError, ErrDeletionDeclined) {
			return deletionError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, deletionError)
	}

	if builder.OutcomePrinter != nil {
		builder.OutcomePrinter.PrintDeletionOutcome(command, outcome)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, branchName string) (Options, bool) {
	forceValue, _ := command.Flags().GetBool(flagForceNameConstant)
	deleteRemoteValue, _ := command.Flags().GetBool(flagDeleteRemoteNameConstant)
	remoteNameValue, _ := command.Flags().GetString(flagRemoteNameConstant)
	switchValue, _ := command.Flags().GetBool(flagSwitchNameConstant)
	assumeYesValue, _ := command.Flags().GetBool(flagAssumeYesNameConstant)
	repositoryPathValue, _ := command.Flags().GetString(flagRepositoryNameConstant)

	trimmedRepositoryPath := strings.TrimSpace(repositoryPathValue)
	if len(trimmedRepositoryPath) == 0 {
		trimmedRepositoryPath = builder.WorkingDirectory
	}

	options := Options{
		RepositoryPath:  trimmedRepositoryPath,
		BranchName:      branchName,
		Force:           forceValue,
		DeleteRemote:    deleteRemoteValue,
		RemoteName:      strings.TrimSpace(remoteNameValue),
		SwitchToDefault: switchValue,
	}

	return options, assumeYesValue
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
