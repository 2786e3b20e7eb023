// Package stash exposes stash save, list, apply, and pop shorthands so an
// operator can park working tree changes before branch operations.
package stash
