package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandArgumentsJoinSeparatorConstant   = " "
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitStatusSubcommandNameConstant     = "status"
	gitCheckoutSubcommandNameConstant   = "checkout"
	gitSwitchSubcommandNameConstant     = "switch"
	gitBranchSubcommandNameConstant     = "branch"
	gitMergeSubcommandNameConstant      = "merge"
	gitFetchSubcommandNameConstant      = "fetch"
	gitPullSubcommandNameConstant       = "pull"
	gitPushSubcommandNameConstant       = "push"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
	gitLSRemoteSubcommandNameConstant   = "ls-remote"
	gitStashSubcommandNameConstant      = "stash"
	gitDeleteFlagConstant               = "--delete"
	gitForceFlagConstant                = "--force"
	gitContainsFlagConstant             = "--contains"
	gitSymrefFlagConstant               = "--symref"
)

// messageTexts holds pre-rendered descriptions for each lifecycle stage.
type messageTexts struct {
	start   string
	success string
	failure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	texts, described := formatter.describeGitCommand(command)
	if !described {
		texts = formatter.genericTexts(command)
	}

	switch stage {
	case messageStageStart:
		return texts.start
	case messageStageSuccess:
		return texts.success
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, texts.failure, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, texts.failure, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitCommand(command ShellCommand) (messageTexts, bool) {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return messageTexts{}, false
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	subcommand := strings.TrimSpace(arguments[0])

	switch subcommand {
	case gitStatusSubcommandNameConstant:
		return formatter.symmetricTexts("Reviewing", "Reviewed", "Review of", "working tree status in "+workingDirectory), true
	case gitCheckoutSubcommandNameConstant, gitSwitchSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.symmetricTexts("Switching to", "Switched to", "Switch to", "branch "+branchName+" in "+workingDirectory), true
	case gitBranchSubcommandNameConstant:
		return formatter.describeBranchSubcommand(arguments, workingDirectory), true
	case gitMergeSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.symmetricTexts("Merging", "Merged", "Merge of", "branch "+branchName+" in "+workingDirectory), true
	case gitFetchSubcommandNameConstant:
		remoteName := formatter.firstPositionalArgument(arguments[1:])
		if len(remoteName) == 0 {
			return formatter.symmetricTexts("Fetching from", "Fetched from", "Fetch from", "all remotes in "+workingDirectory), true
		}
		return formatter.symmetricTexts("Fetching from", "Fetched from", "Fetch from", "remote "+remoteName+" in "+workingDirectory), true
	case gitPullSubcommandNameConstant:
		return formatter.symmetricTexts("Pulling", "Pulled", "Pull of", "latest changes in "+workingDirectory), true
	case gitPushSubcommandNameConstant:
		return formatter.describePushSubcommand(arguments, workingDirectory), true
	case gitForEachRefSubcommandNameConstant:
		return formatter.symmetricTexts("Listing", "Listed", "Listing of", "branch references in "+workingDirectory), true
	case gitLSRemoteSubcommandNameConstant:
		if containsArgument(arguments, gitSymrefFlagConstant) {
			remoteName := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
			return formatter.symmetricTexts("Resolving", "Resolved", "Resolution of", "default branch on remote "+remoteName), true
		}
		return formatter.symmetricTexts("Querying", "Queried", "Query of", "remote references in "+workingDirectory), true
	case gitStashSubcommandNameConstant:
		operation := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
		return formatter.symmetricTexts("Running stash", "Completed stash", "Stash", operation+" in "+workingDirectory), true
	default:
		return messageTexts{}, false
	}
}

func (formatter CommandMessageFormatter) describeBranchSubcommand(arguments []string, workingDirectory string) messageTexts {
	if containsArgument(arguments, gitContainsFlagConstant) {
		branchName := formatter.ensureValue(formatter.lastPositionalArgument(arguments[1:]))
		return formatter.symmetricTexts("Checking", "Checked", "Check of", "branches containing "+branchName+" in "+workingDirectory)
	}
	if containsArgument(arguments, gitDeleteFlagConstant) {
		branchName := formatter.ensureValue(formatter.lastPositionalArgument(arguments[1:]))
		if containsArgument(arguments, gitForceFlagConstant) {
			return formatter.symmetricTexts("Force removing", "Force removed", "Forced removal of", "local branch "+branchName+" in "+workingDirectory)
		}
		return formatter.symmetricTexts("Removing", "Removed", "Removal of", "local branch "+branchName+" in "+workingDirectory)
	}
	branchName := formatter.ensureValue(formatter.lastPositionalArgument(arguments[1:]))
	return formatter.symmetricTexts("Creating", "Created", "Creation of", "branch "+branchName+" in "+workingDirectory)
}

func (formatter CommandMessageFormatter) describePushSubcommand(arguments []string, workingDirectory string) messageTexts {
	remoteName := formatter.ensureValue(formatter.firstPositionalArgument(arguments[1:]))
	if deletionTarget := findFlagValue(arguments, gitDeleteFlagConstant); len(deletionTarget) > 0 {
		return formatter.symmetricTexts("Deleting", "Deleted", "Deletion of", "remote branch "+deletionTarget+" from "+remoteName)
	}
	return formatter.symmetricTexts("Pushing to", "Pushed to", "Push to", "remote "+remoteName+" from "+workingDirectory)
}

func (formatter CommandMessageFormatter) symmetricTexts(startVerb string, successVerb string, failureNoun string, subject string) messageTexts {
	return messageTexts{
		start:   startVerb + " " + subject,
		success: successVerb + " " + subject,
		failure: failureNoun + " " + subject,
	}
}

func (formatter CommandMessageFormatter) genericTexts(command ShellCommand) messageTexts {
	commandLabel := formatter.formatCommandLabel(command)
	return messageTexts{
		start:   fmt.Sprintf(genericStartTemplateConstant, commandLabel),
		success: fmt.Sprintf(genericSuccessTemplateConstant, commandLabel),
		failure: commandLabel,
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		commandLabel = commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return commandLabel
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) firstPositionalArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastPositionalArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
