package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/branchctl/internal/branches/merged"
	"github.com/temirov/branchctl/internal/branches/remove"
	"github.com/temirov/branchctl/internal/branches/resolve"
	"github.com/temirov/branchctl/internal/execshell"
	"github.com/temirov/branchctl/internal/plan"
	"github.com/temirov/branchctl/internal/prmerge"
	"github.com/temirov/branchctl/internal/shared"
	"github.com/temirov/branchctl/internal/stash"
	"github.com/temirov/branchctl/internal/ui"
	"github.com/temirov/branchctl/internal/utils"
	"github.com/temirov/branchctl/internal/utils/flags"
)

const (
	applicationNameConstant                 = "branchctl"
	applicationShortDescriptionConstant     = "Command-line interface for guarded git branch workflows"
	applicationLongDescriptionConstant      = "branchctl checks, deletes, and merges git branches with guard rails around the default branch and unmerged work."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagDescriptionConstant         = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "BRANCHCTL"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "branchctl CLI executed"
	rootCommandDebugMessageConstant         = "branchctl CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	toolsConfigurationKeyConstant           = "tools"
	branchDeleteConfigurationKeyConstant    = toolsConfigurationKeyConstant + ".branch_delete"
	prMergeConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".pr_merge"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	BranchDelete     remove.CommandConfiguration  `mapstructure:"branch_delete"`
	PullRequestMerge prmerge.CommandConfiguration `mapstructure:"pr_merge"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	embeddedConfiguration, _ := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetOut(utils.NewFlushingWriter(os.Stdout))
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		"",
		flags.FormatChoiceUsage(
			string(utils.LogLevelInfo),
			[]string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)},
			logLevelFlagDescriptionConstant,
		),
	)
	cobraCommand.PersistentFlags().StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flags.FormatChoiceUsage(
			string(utils.LogFormatStructured),
			[]string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)},
			logFormatFlagDescriptionConstant,
		),
	)

	workingDirectory := ""
	if resolvedWorkingDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
		workingDirectory = resolvedWorkingDirectory
	}

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	eventObserverProvider := func() execshell.CommandEventObserver {
		if application.humanReadableLoggingEnabled() {
			return ui.NewConsoleCommandEventLogger(application.logger)
		}
		return nil
	}
	outcomePrinter := ui.NewColoredOutcomePrinter()

	branchExistsBuilder := resolve.CommandBuilder{
		LoggerProvider:               loggerProvider,
		CommandEventObserverProvider: eventObserverProvider,
		WorkingDirectory:             workingDirectory,
	}
	branchExistsCommand, branchExistsBuildError := branchExistsBuilder.Build()
	if branchExistsBuildError == nil {
		cobraCommand.AddCommand(branchExistsCommand)
	}

	branchMergedBuilder := merged.CommandBuilder{
		LoggerProvider:               loggerProvider,
		CommandEventObserverProvider: eventObserverProvider,
		WorkingDirectory:             workingDirectory,
	}
	branchMergedCommand, branchMergedBuildError := branchMergedBuilder.Build()
	if branchMergedBuildError == nil {
		cobraCommand.AddCommand(branchMergedCommand)
	}

	branchDeleteBuilder := remove.CommandBuilder{
		LoggerProvider:               loggerProvider,
		CommandEventObserverProvider: eventObserverProvider,
		ConfigurationProvider: func() remove.CommandConfiguration {
			return application.configuration.Tools.BranchDelete
		},
		Prompter:         shared.NewIOConfirmationPrompter(os.Stdin, os.Stderr),
		OutcomePrinter:   outcomePrinter,
		WorkingDirectory: workingDirectory,
	}
	branchDeleteCommand, branchDeleteBuildError := branchDeleteBuilder.Build()
	if branchDeleteBuildError == nil {
		cobraCommand.AddCommand(branchDeleteCommand)
	}

	pullRequestMergeBuilder := prmerge.CommandBuilder{
		LoggerProvider:               loggerProvider,
		CommandEventObserverProvider: eventObserverProvider,
		ConfigurationProvider: func() prmerge.CommandConfiguration {
			return application.configuration.Tools.PullRequestMerge
		},
		ResultPrinter:    outcomePrinter,
		WorkingDirectory: workingDirectory,
	}
	pullRequestMergeCommand, pullRequestMergeBuildError := pullRequestMergeBuilder.Build()
	if pullRequestMergeBuildError == nil {
		cobraCommand.AddCommand(pullRequestMergeCommand)
	}

	stashBuilder := stash.CommandBuilder{
		LoggerProvider:               loggerProvider,
		CommandEventObserverProvider: eventObserverProvider,
		WorkingDirectory:             workingDirectory,
	}
	stashCommand, stashBuildError := stashBuilder.Build()
	if stashBuildError == nil {
		cobraCommand.AddCommand(stashCommand)
	}

	planBuilder := plan.CommandBuilder{
		LoggerProvider:               loggerProvider,
		CommandEventObserverProvider: eventObserverProvider,
		WorkingDirectory:             workingDirectory,
	}
	planCommand, planBuildError := planBuilder.Build()
	if planBuildError == nil {
		cobraCommand.AddCommand(planCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the assembled Cobra root command for embedding and tests.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range remove.DefaultConfigurationValues(branchDeleteConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range prmerge.DefaultConfigurationValues(prMergeConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
