package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchctl/internal/plan"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	planHeaderMarkerConstant         = "# plan.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedPlanStepCountConstant    = 2
	expectedLogLevelConstant         = "info"
	expectedRemoteNameConstant       = "origin"
)

type readmeApplicationConfiguration struct {
	Common readmeCommonConfiguration `yaml:"common"`
	Tools  readmeToolsConfiguration  `yaml:"tools"`
}

type readmeCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type readmeToolsConfiguration struct {
	BranchDelete     map[string]any `yaml:"branch_delete"`
	PullRequestMerge map[string]any `yaml:"pr_merge"`
}

func extractReadmeSnippet(testInstance *testing.T, headerMarker string) string {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, headerMarker)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}

func TestReadmeConfigurationSnippetParses(testInstance *testing.T) {
	snippetContent := extractReadmeSnippet(testInstance, configHeaderMarkerConstant)

	var configuration readmeApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &configuration))

	require.Equal(testInstance, expectedLogLevelConstant, configuration.Common.LogLevel)
	require.Equal(testInstance, expectedRemoteNameConstant, configuration.Tools.BranchDelete["remote"])
	require.Equal(testInstance, expectedRemoteNameConstant, configuration.Tools.PullRequestMerge["remote"])
}

func TestReadmePlanSnippetParses(testInstance *testing.T) {
	snippetContent := extractReadmeSnippet(testInstance, planHeaderMarkerConstant)

	configuration, parseError := plan.ParseConfiguration([]byte(snippetContent))
	require.NoError(testInstance, parseError)

	require.Len(testInstance, configuration.Steps, expectedPlanStepCountConstant)
	require.Equal(testInstance, plan.OperationTypeBranchDelete, configuration.Steps[0].Operation)
	require.Equal(testInstance, plan.OperationTypePullRequestMerge, configuration.Steps[1].Operation)
}
