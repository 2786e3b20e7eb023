package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/temirov/branchctl/internal/branches/remove"
	"github.com/temirov/branchctl/internal/prmerge"
)

const (
	deletedOutcomeLabelConstant      = "DELETED"
	forceDeletedOutcomeLabelConstant = "FORCE DELETED"
	notFoundOutcomeLabelConstant     = "NOT FOUND"
	blockedOutcomeLabelConstant      = "BLOCKED"
	mergedOutcomeLabelConstant       = "MERGED"
	conflictOutcomeLabelConstant     = "CONFLICT"
	deletionLineTemplateConstant     = "%s %s\n"
	remoteDeletionSuffixTemplate     = "%s %s (remote branch removed)\n"
	blockedDeletionTemplateConstant  = "%s %s is not merged; use --force to delete anyway\n"
	mergeLineTemplateConstant        = "%s %s into %s\n"
	conflictLineTemplateConstant     = "%s merging %s into %s; resolve conflicts and rerun\n"
	pushedMergeLineTemplateConstant  = "%s %s into %s (base pushed)\n"
)

// ColoredOutcomePrinter renders operation outcomes with colored status labels.
type ColoredOutcomePrinter struct {
	successSprint func(values ...interface{}) string
	warningSprint func(values ...interface{}) string
	neutralSprint func(values ...interface{}) string
}

// NewColoredOutcomePrinter constructs a printer with the default color palette.
func NewColoredOutcomePrinter() *ColoredOutcomePrinter {
	return &ColoredOutcomePrinter{
		successSprint: color.New(color.FgGreen, color.Bold).SprintFunc(),
		warningSprint: color.New(color.FgYellow, color.Bold).SprintFunc(),
		neutralSprint: color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

// PrintDeletionOutcome renders a branch deletion outcome on the command output stream.
func (printer *ColoredOutcomePrinter) PrintDeletionOutcome(command *cobra.Command, outcome remove.Outcome) {
	outputWriter := command.OutOrStdout()

	switch outcome.Reason {
	case remove.ReasonUnmergedBlocked:
		fmt.Fprintf(outputWriter, blockedDeletionTemplateConstant, printer.warningSprint(blockedOutcomeLabelConstant), outcome.BranchName)
	case remove.ReasonNotFound:
		if outcome.RemoteDeleted {
			fmt.Fprintf(outputWriter, remoteDeletionSuffixTemplate, printer.neutralSprint(notFoundOutcomeLabelConstant), outcome.BranchName)
			return
		}
		fmt.Fprintf(outputWriter, deletionLineTemplateConstant, printer.neutralSprint(notFoundOutcomeLabelConstant), outcome.BranchName)
	case remove.ReasonForced:
		printer.printDeletedLine(command, printer.warningSprint(forceDeletedOutcomeLabelConstant), outcome)
	default:
		printer.printDeletedLine(command, printer.successSprint(deletedOutcomeLabelConstant), outcome)
	}
}

func (printer *ColoredOutcomePrinter) printDeletedLine(command *cobra.Command, label string, outcome remove.Outcome) {
	if outcome.RemoteDeleted {
		fmt.Fprintf(command.OutOrStdout(), remoteDeletionSuffixTemplate, label, outcome.BranchName)
		return
	}
	fmt.Fprintf(command.OutOrStdout(), deletionLineTemplateConstant, label, outcome.BranchName)
}

// PrintMergeResult renders a pull request merge result on the command output stream.
func (printer *ColoredOutcomePrinter) PrintMergeResult(command *cobra.Command, result prmerge.Result) {
	outputWriter := command.OutOrStdout()

	if result.State == prmerge.StateConflictPending {
		fmt.Fprintf(outputWriter, conflictLineTemplateConstant, printer.warningSprint(conflictOutcomeLabelConstant), result.BaseBranch, result.HeadBranch)
		return
	}

	if result.BasePushed {
		fmt.Fprintf(outputWriter, pushedMergeLineTemplateConstant, printer.successSprint(mergedOutcomeLabelConstant), result.HeadBranch, result.BaseBranch)
		return
	}
	fmt.Fprintf(outputWriter, mergeLineTemplateConstant, printer.successSprint(mergedOutcomeLabelConstant), result.HeadBranch, result.BaseBranch)
}
