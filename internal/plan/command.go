package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchctl/internal/branches/merged"
	"github.com/temirov/branchctl/internal/branches/remove"
	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/gitrepo"
	"github.com/temirov/branchctl/internal/prmerge"
	"github.com/temirov/branchctl/internal/shared"
)

const (
	commandUseConstant                    = "plan <file>"
	commandShortDescriptionConstant       = "Execute branch operations declared in a YAML plan"
	commandLongDescriptionConstant        = "plan runs branch-delete and pr-merge steps from a YAML document in order, stopping at the first failing step."
	commandExecutionErrorTemplateConstant = "plan execution failed: %w"
	missingPlanArgumentMessageConstant    = "plan requires exactly one plan file argument"
	flagRepositoryNameConstant            = "repo"
	flagRepositoryDescriptionConstant     = "Default repository path for steps that omit one"
	stepSummaryTemplateConstant           = "step %d: %s\n"
)

var errMissingPlanArgument = errors.New(missingPlanArgumentMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func() execshell.CommandEventObserver

// CommandBuilder assembles the Cobra command for plan execution.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandEventObserverProvider CommandEventObserverProvider
	Executor                     shared.GitExecutor
	RepositoryManager            shared.GitRepositoryManager
	WorkingDirectory             string
}

// Build constructs the plan command.
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
		return errMissingPlanArgument
	}

	configuration, loadError := LoadConfiguration(arguments[0])
	if loadError != nil {
		return loadError
	}

	repositoryPathValue, _ := command.Flags().GetString(flagRepositoryNameConstant)
	trimmedRepositoryPath := strings.TrimSpace(repositoryPathValue)
	if len(trimmedRepositoryPath) == 0 {
		trimmedRepositoryPath = builder.WorkingDirectory
	}

	executor, executorError := builder.resolvePlanExecutor(trimmedRepositoryPath)
	if executorError != nil {
		return executorError
	}

	stepResults, executionError := executor.Execute(command.Context(), configuration)
	for stepIndex, stepResult := range stepResults {
		fmt.Fprintf(command.OutOrStdout(), stepSummaryTemplateConstant, stepIndex, describeStepResult(stepResult))
	}
	if executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}
	return nil
}

func describeStepResult(stepResult StepResult) string {
	switch {
	case stepResult.DeletionOutcome != nil:
		return string(stepResult.Operation) + " " + stepResult.DeletionOutcome.BranchName + " " + string(stepResult.DeletionOutcome.Reason)
	case stepResult.MergeResult != nil:
		return string(stepResult.Operation) + " " + stepResult.MergeResult.HeadBranch + " into " + stepResult.MergeResult.BaseBranch + " " + string(stepResult.MergeResult.State)
	default:
		return string(stepResult.Operation)
	}
}

func (builder *CommandBuilder) resolvePlanExecutor(workingDirectory string) (*Executor, error) {
	repositoryManager, managerError := builder.resolveRepositoryManager()
	if managerError != nil {
		return nil, managerError
	}

	existenceService, existenceServiceError := resolve.NewService(resolve.Dependencies{RepositoryManager: repositoryManager})
	if existenceServiceError != nil {
		return nil, existenceServiceError
	}

	mergeStatusService, mergeStatusServiceError := merged.NewService(merged.Dependencies{RepositoryManager: repositoryManager})
	if mergeStatusServiceError != nil {
		return nil, mergeStatusServiceError
	}

	// Plan runs are non-interactive; deletion steps never prompt.
	deletionService, deletionServiceError := remove.NewService(remove.Dependencies{
		RepositoryManager: repositoryManager,
		ExistenceChecker:  existenceService,
		MergeChecker:      mergeStatusService,
	})
	if deletionServiceError != nil {
		return nil, deletionServiceError
	}

	mergeService, mergeServiceError := prmerge.NewService(prmerge.Dependencies{
		RepositoryManager: repositoryManager,
		ExistenceChecker:  existenceService,
	})
	if mergeServiceError != nil {
		return nil, mergeServiceError
	}

	return NewExecutor(Dependencies{
		BranchDeleter:     deletionService,
		PullRequestMerger: mergeService,
	}, workingDirectory)
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
