// Package execshell provides structured helpers for invoking the git
// command-line tool.
//
// It wraps os/exec behind ShellExecutor, which accepts argument lists rather
// than interpolated command strings, logs command lifecycle events through
// zap, and surfaces non-zero exit codes and execution failures as typed
// errors so callers never parse shell output to detect failure.
package execshell
