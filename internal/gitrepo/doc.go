// Package gitrepo implements repository-level git operations over the shell
// executor. The RepositoryManager translates high level intents into concrete
// git invocations and parses their output; it holds no repository state.
package gitrepo
