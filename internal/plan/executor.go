package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/temirov/branchctl/internal/branches/remove"
	"github.com/temirov/branchctl/internal/prmerge"
)

const (
	branchDeleterMissingMessageConstant      = "branch deleter not configured"
	pullRequestMergerMissingMessageConstant  = "pull request merger not configured"
	stepOptionsDecodeErrorTemplateConstant   = "failed to decode options for step %d (%s): %w"
	stepExecutionErrorTemplateConstant       = "step %d (%s) failed: %w"
	mapstructureDecoderTagNameConstant       = "mapstructure"
	decoderCreationErrorTemplateConstant     = "failed to build step option decoder: %w"
	unsupportedStepOperationTemplateConstant = "step %d uses unsupported operation %q"
)

// ErrBranchDeleterNotConfigured indicates the branch deleter dependency was missing.
var ErrBranchDeleterNotConfigured = errors.New(branchDeleterMissingMessageConstant)

// ErrPullRequestMergerNotConfigured indicates the pull request merger dependency was missing.
var ErrPullRequestMergerNotConfigured = errors.New(pullRequestMergerMissingMessageConstant)

// BranchDeleter runs guarded branch deletions.
type BranchDeleter interface {
	Delete(executionContext context.Context, options remove.Options) (remove.Outcome, error)
}

// PullRequestMerger runs pull request merges.
type PullRequestMerger interface {
	Merge(executionContext context.Context, options prmerge.Options) (prmerge.Result, error)
}

// Dependencies enumerates the services plan steps dispatch to.
type Dependencies struct {
	BranchDeleter     BranchDeleter
	PullRequestMerger PullRequestMerger
}

// StepResult captures the outcome of a single executed step.
type StepResult struct {
	Operation       OperationType
	DeletionOutcome *remove.Outcome
	MergeResult     *prmerge.Result
}

// Executor runs plan steps in declaration order, stopping at the first failure.
type Executor struct {
	branchDeleter     BranchDeleter
	pullRequestMerger PullRequestMerger
	workingDirectory  string
}

// NewExecutor constructs an Executor from the provided dependencies. The
// working directory seeds the repository path of steps that omit one.
func NewExecutor(dependencies Dependencies, workingDirectory string) (*Executor, error) {
	if dependencies.BranchDeleter == nil {
		return nil, ErrBranchDeleterNotConfigured
	}
	if dependencies.PullRequestMerger == nil {
		return nil, ErrPullRequestMergerNotConfigured
	}
	return &Executor{
		branchDeleter:     dependencies.BranchDeleter,
		pullRequestMerger: dependencies.PullRequestMerger,
		workingDirectory:  workingDirectory,
	}, nil
}

// branchDeleteStepOptions mirrors the with block of a branch-delete step.
type branchDeleteStepOptions struct {
	Branch          string `mapstructure:"branch"`
	RepositoryPath  string `mapstructure:"repo"`
	Force           bool   `mapstructure:"force"`
	DeleteRemote    bool   `mapstructure:"delete_remote"`
	RemoteName      string `mapstructure:"remote"`
	SwitchToDefault bool   `mapstructure:"switch"`
}

// pullRequestMergeStepOptions mirrors the with block of a pr-merge step.
type pullRequestMergeStepOptions struct {
	HeadBranch     string `mapstructure:"head"`
	BaseBranch     string `mapstructure:"base"`
	RepositoryPath string `mapstructure:"repo"`
	RemoteName     string `mapstructure:"remote"`
	PushBase       bool   `mapstructure:"push"`
}

// Execute runs every step of the configuration in order.
func (executor *Executor) Execute(executionContext context.Context, configuration Configuration) ([]StepResult, error) {
	stepResults := make([]StepResult, 0, len(configuration.Steps))

	for stepIndex, step := range configuration.Steps {
		switch step.Operation {
		case OperationTypeBranchDelete:
			stepResult, stepError := executor.executeBranchDelete(executionContext, stepIndex, step)
			if stepError != nil {
				return stepResults, stepError
			}
			stepResults = append(stepResults, stepResult)
		case OperationTypePullRequestMerge:
			stepResult, stepError := executor.executePullRequestMerge(executionContext, stepIndex, step)
			if stepError != nil {
				return stepResults, stepError
			}
			stepResults = append(stepResults, stepResult)
		default:
			return stepResults, fmt.Errorf(unsupportedStepOperationTemplateConstant, stepIndex, step.Operation)
		}
	}

	return stepResults, nil
}

func (executor *Executor) executeBranchDelete(executionContext context.Context, stepIndex int, step StepConfiguration) (StepResult, error) {
	stepOptions := branchDeleteStepOptions{SwitchToDefault: true}
	if decodeError := decodeStepOptions(step.Options, &stepOptions); decodeError != nil {
		return StepResult{}, fmt.Errorf(stepOptionsDecodeErrorTemplateConstant, stepIndex, step.Operation, decodeError)
	}

	deletionOutcome, deletionError := executor.branchDeleter.Delete(executionContext, remove.Options{
		RepositoryPath:  executor.resolveRepositoryPath(stepOptions.RepositoryPath),
		BranchName:      stepOptions.Branch,
		Force:           stepOptions.Force,
		DeleteRemote:    stepOptions.DeleteRemote,
		RemoteName:      stepOptions.RemoteName,
		SwitchToDefault: stepOptions.SwitchToDefault,
	})
	if deletionError != nil {
		return StepResult{}, fmt.Errorf(stepExecutionErrorTemplateConstant, stepIndex, step.Operation, deletionError)
	}

	return StepResult{Operation: step.Operation, DeletionOutcome: &deletionOutcome}, nil
}

func (executor *Executor) executePullRequestMerge(executionContext context.Context, stepIndex int, step StepConfiguration) (StepResult, error) {
	stepOptions := pullRequestMergeStepOptions{}
	if decodeError := decodeStepOptions(step.Options, &stepOptions); decodeError != nil {
		return StepResult{}, fmt.Errorf(stepOptionsDecodeErrorTemplateConstant, stepIndex, step.Operation, decodeError)
	}

	mergeResult, mergeError := executor.pullRequestMerger.Merge(executionContext, prmerge.Options{
		RepositoryPath: executor.resolveRepositoryPath(stepOptions.RepositoryPath),
		HeadBranch:     stepOptions.HeadBranch,
		BaseBranch:     stepOptions.BaseBranch,
		RemoteName:     stepOptions.RemoteName,
		PushBase:       stepOptions.PushBase,
	})
	if mergeError != nil {
		return StepResult{}, fmt.Errorf(stepExecutionErrorTemplateConstant, stepIndex, step.Operation, mergeError)
	}

	return StepResult{Operation: step.Operation, MergeResult: &mergeResult}, nil
}

func (executor *Executor) resolveRepositoryPath(stepRepositoryPath string) string {
	trimmedRepositoryPath := strings.TrimSpace(stepRepositoryPath)
	if len(trimmedRepositoryPath) > 0 {
		return trimmedRepositoryPath
	}
	return executor.workingDirectory
}

func decodeStepOptions(options map[string]any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: mapstructureDecoderTagNameConstant, Result: target})
	if decoderError != nil {
		return fmt.Errorf(decoderCreationErrorTemplateConstant, decoderError)
	}
	return decoder.Decode(options)
}
