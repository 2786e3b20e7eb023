// Package plan executes a sequence of branch operations declared in a YAML
// document. Each step names an operation and supplies its options under a
// with block, so recurring cleanup sequences can be replayed without retyping
// flag sets.
package plan
