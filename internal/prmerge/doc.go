// Package prmerge performs a manual pull request merge: head and base are
// synchronized with the remote, base is merged into head, then head is merged
// into base. A merge conflict leaves the repository mid-merge and is reported
// as a pending state for the operator to resolve; re-running the command
// after resolution continues from the clean gate.
package prmerge
