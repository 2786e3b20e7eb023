package stash

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/gitrepo"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	groupUseConstant              = "stash"
	groupShortDescriptionConstant = "Manage stashed working tree changes"

	saveUseConstant               = "save"
	saveShortDescriptionConstant  = "Stash working tree changes"
	listUseConstant               = "list"
	listShortDescriptionConstant  = "List stash entries"
	applyUseConstant              = "apply"
	applyShortDescriptionConstant = "Reapply a stash entry without dropping it"
	popUseConstant                = "pop"
	popShortDescriptionConstant   = "Reapply a stash entry and drop it"

	flagMessageNameConstant           = "message"
	flagMessageDescriptionConstant    = "Description recorded with the stash entry"
	flagIndexNameConstant             = "index"
	flagIndexDescriptionConstant      = "Stash entry index, newest entry is 0"
	flagRepositoryNameConstant        = "repo"
	flagRepositoryDescriptionConstant = "Path to the repository working copy"

	stashOperationErrorTemplateConstant = "stash operation failed: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the Cobra command group for stash operations.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandEventObserverProvider CommandEventObserverProvider
	Executor                     shared.GitExecutor
	StashManager                 shared.StashManager
	WorkingDirectory             string
}

// Build constructs the stash command group with its subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
	}
	groupCommand.PersistentFlags().String(flagRepositoryNameConstant, builder.WorkingDirectory, flagRepositoryDescriptionConstant)

	saveCommand := &cobra.Command{
		Use:   saveUseConstant,
		Short: saveShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runSave,
	}
	saveCommand.Flags().String(flagMessageNameConstant, "", flagMessageDescriptionConstant)

	listCommand := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}

	applyCommand := &cobra.Command{
		Use:   applyUseConstant,
		Short: applyShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runApply,
	}
	applyCommand.Flags().Int(flagIndexNameConstant, 0, flagIndexDescriptionConstant)

	popCommand := &cobra.Command{
		Use:   popUseConstant,
		Short: popShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runPop,
	}
	popCommand.Flags().Int(flagIndexNameConstant, 0, flagIndexDescriptionConstant)

	groupCommand.AddCommand(saveCommand, listCommand, applyCommand, popCommand)
	return groupCommand, nil
}

func (builder *CommandBuilder) runSave(command *cobra.Command, arguments []string) error {
	service, repositoryPath, resolutionError := builder.resolveService(command)
	if resolutionError != nil {
		return resolutionError
	}

	messageValue, _ := command.Flags().GetString(flagMessageNameConstant)
	if saveError := service.Save(command.Context(), repositoryPath, messageValue); saveError != nil {
		return fmt.Errorf(stashOperationErrorTemplateConstant, saveError)
	}
	return nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, arguments []string) error {
	service, repositoryPath, resolutionError := builder.resolveService(command)
	if resolutionError != nil {
		return resolutionError
	}

	stashEntries, listError := service.List(command.Context(), repositoryPath)
	if listError != nil {
		return fmt.Errorf(stashOperationErrorTemplateConstant, listError)
	}

	for _, stashEntry := range stashEntries {
		fmt.Fprintln(command.OutOrStdout(), stashEntry)
	}
	return nil
}

func (builder *CommandBuilder) runApply(command *cobra.Command, arguments []string) error {
	service, repositoryPath, resolutionError := builder.resolveService(command)
	if resolutionError != nil {
		return resolutionError
	}

	indexValue, _ := command.Flags().GetInt(flagIndexNameConstant)
	if applyError := service.Apply(command.Context(), repositoryPath, indexValue); applyError != nil {
		return fmt.Errorf(stashOperationErrorTemplateConstant, applyError)
	}
	return nil
}

func (builder *CommandBuilder) runPop(command *cobra.Command, arguments []string) error {
	service, repositoryPath, resolutionError := builder.resolveService(command)
	if resolutionError != nil {
		return resolutionError
	}

	indexValue, _ := command.Flags().GetInt(flagIndexNameConstant)
	if popError := service.Pop(command.Context(), repositoryPath, indexValue); popError != nil {
		return fmt.Errorf(stashOperationErrorTemplateConstant, popError)
	}
	return nil
}

func (builder *CommandBuilder) resolveService(command *cobra.Command) (*Service, string, error) {
	repositoryPathValue, _ := command.Flags().GetString(flagRepositoryNameConstant)
	trimmedRepositoryPath := strings.TrimSpace(repositoryPathValue)
	if len(trimmedRepositoryPath) == 0 {
		trimmedRepositoryPath = builder.WorkingDirectory
	}

	stashManager, managerError := builder.resolveStashManager()
	if managerError != nil {
		return nil, "", managerError
	}

	service, serviceError := NewService(Dependencies{StashManager: stashManager})
	if serviceError != nil {
		return nil, "", serviceError
	}
	return service, trimmedRepositoryPath, nil
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

func (builder *CommandBuilder) resolveStashManager() (shared.StashManager, error) {
	if builder.StashManager != nil {
		return builder.StashManager, nil
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
