// Package remove deletes branches behind a sequence of guards. The default
// branch is never deletable, unmerged branches are blocked unless forced, and
// a branch missing locally counts as merged with nothing to delete. Blocked
// outcomes are reported through the result reason rather than an error.
package remove
