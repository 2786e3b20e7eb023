// Package merged answers reachability queries: a branch counts as merged when
// at least one other branch contains its tip commit.
package merged
