package cli_test

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/branchctl/cmd/cli"
)

const (
	embeddedConfigurationTypeConstant         = "yaml"
	embeddedDefaultLogLevelConstant           = "info"
	embeddedDefaultLogFormatConstant          = "structured"
	embeddedDefaultRemoteNameConstant         = "origin"
	rootHelpExecutionTestNameConstant         = "RootHelp"
	logLevelOverrideExecutionTestNameConstant = "LogLevelOverride"
)

var expectedSubcommandNames = []string{
	"branch-exists",
	"branch-merged",
	"branch-delete",
	"pr-merge",
	"stash",
	"plan",
}

func TestEmbeddedDefaultConfigurationDecodes(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, embeddedConfigurationTypeConstant, configurationType)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationContent)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, embeddedDefaultLogLevelConstant, configuration.Common.LogLevel)
	require.Equal(testInstance, embeddedDefaultLogFormatConstant, configuration.Common.LogFormat)
	require.Equal(testInstance, embeddedDefaultRemoteNameConstant, configuration.Tools.BranchDelete.RemoteName)
	require.False(testInstance, configuration.Tools.BranchDelete.DeleteRemote)
	require.True(testInstance, configuration.Tools.BranchDelete.SwitchToDefault)
	require.False(testInstance, configuration.Tools.BranchDelete.AssumeYes)
	require.Equal(testInstance, embeddedDefaultRemoteNameConstant, configuration.Tools.PullRequestMerge.RemoteName)
	require.False(testInstance, configuration.Tools.PullRequestMerge.PushBase)
}

func TestNewApplicationRegistersCommands(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	require.NotNil(testInstance, rootCommand)

	registeredNames := make(map[string]struct{})
	for _, registeredCommand := range rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = struct{}{}
	}

	for _, expectedName := range expectedSubcommandNames {
		require.Contains(testInstance, registeredNames, expectedName)
	}
}

func TestApplicationExecutesRootCommand(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: rootHelpExecutionTestNameConstant, arguments: []string{}},
		{name: logLevelOverrideExecutionTestNameConstant, arguments: []string{"--log-level", "debug"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application := cli.NewApplication()
			rootCommand := application.RootCommand()

			outputBuffer := &bytes.Buffer{}
			rootCommand.SetOut(outputBuffer)
			rootCommand.SetErr(outputBuffer)
			rootCommand.SetArgs(testCase.arguments)

			require.NoError(testInstance, application.Execute())
			require.NotEmpty(testInstance, outputBuffer.String())
		})
	}
}
