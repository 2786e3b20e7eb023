package utils_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchctl/internal/utils"
)

const (
	loggerFactorySubtestNameTemplateConstant = "%s_%s"
	unsupportedLogLevelValueConstant         = "verbose"
	unsupportedLogFormatValueConstant        = "plain"
)

func TestLoggerFactoryCreateLoggerSupportedCombinations(testInstance *testing.T) {
	logLevels := []utils.LogLevel{utils.LogLevelDebug, utils.LogLevelInfo, utils.LogLevelWarn, utils.LogLevelError}
	logFormats := []utils.LogFormat{utils.LogFormatStructured, utils.LogFormatConsole}

	for _, logLevel := range logLevels {
		for _, logFormat := range logFormats {
			testInstance.Run(fmt.Sprintf(loggerFactorySubtestNameTemplateConstant, logLevel, logFormat), func(testInstance *testing.T) {
				logger, creationError := utils.NewLoggerFactory().CreateLogger(logLevel, logFormat)

				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, logger)
			})
		}
	}
}

func TestLoggerFactoryCreateLoggerRejectsUnknownValues(testInstance *testing.T) {
	factory := utils.NewLoggerFactory()

	_, levelError := factory.CreateLogger(utils.LogLevel(unsupportedLogLevelValueConstant), utils.LogFormatConsole)
	require.Error(testInstance, levelError)
	require.Contains(testInstance, levelError.Error(), unsupportedLogLevelValueConstant)

	_, formatError := factory.CreateLogger(utils.LogLevelInfo, utils.LogFormat(unsupportedLogFormatValueConstant))
	require.Error(testInstance, formatError)
	require.Contains(testInstance, formatError.Error(), unsupportedLogFormatValueConstant)
}
