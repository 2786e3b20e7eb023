// Package ui renders command lifecycle events and operation outcomes for
// human-readable console sessions.
package ui
