package plan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationPathRequiredMessageConstant     = "plan file path must be provided"
	configurationLoadErrorTemplateConstant       = "failed to load plan: %w"
	configurationParseErrorTemplateConstant      = "failed to parse plan: %w"
	configurationEmptyStepsMessageConstant       = "plan must define at least one step"
	configurationOperationMissingMessageConstant = "plan step missing operation name"
	unsupportedOperationTemplateConstant         = "plan step %d uses unsupported operation %q"
)

// OperationType identifies supported plan operations.
type OperationType string

// Supported plan operations.
const (
	OperationTypeBranchDelete     OperationType = "branch-delete"
	OperationTypePullRequestMerge OperationType = "pr-merge"
)

// ErrPlanPathRequired indicates the plan file path was empty.
var ErrPlanPathRequired = errors.New(configurationPathRequiredMessageConstant)

// ErrPlanStepsEmpty indicates the plan defined no steps.
var ErrPlanStepsEmpty = errors.New(configurationEmptyStepsMessageConstant)

// ErrStepOperationMissing indicates a step omitted the operation name.
var ErrStepOperationMissing = errors.New(configurationOperationMissingMessageConstant)

// Configuration describes the ordered plan steps loaded from YAML.
type Configuration struct {
	Steps []StepConfiguration `yaml:"steps"`
}

// StepConfiguration associates an operation type with declarative options.
type StepConfiguration struct {
	Operation OperationType  `yaml:"operation"`
	Options   map[string]any `yaml:"with"`
}

// LoadConfiguration reads a plan from disk and validates its steps.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, ErrPlanPathRequired
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	return ParseConfiguration(contentBytes)
}

// ParseConfiguration decodes and validates a plan document.
func ParseConfiguration(contentBytes []byte) (Configuration, error) {
	var configuration Configuration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, ErrPlanStepsEmpty
	}

	for stepIndex, step := range configuration.Steps {
		operationName := OperationType(strings.TrimSpace(string(step.Operation)))
		if len(operationName) == 0 {
			return Configuration{}, ErrStepOperationMissing
		}
		switch operationName {
		case OperationTypeBranchDelete, OperationTypePullRequestMerge:
			configuration.Steps[stepIndex].Operation = operationName
		default:
			return Configuration{}, fmt.Errorf(unsupportedOperationTemplateConstant, stepIndex, operationName)
		}
	}

	return configuration, nil
}
