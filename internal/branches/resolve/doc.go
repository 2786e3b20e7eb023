// Package resolve answers branch existence queries. Matching is leaf exact:
// the text after the final slash of each reference must equal the requested
// name, compared case-insensitively, so feature-x never matches
// feature-x-old and origin/main matches a query for main.
package resolve
