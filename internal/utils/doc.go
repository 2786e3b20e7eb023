// Package utils provides shared infrastructure for the CLI: logger
// construction, configuration loading, and output writer helpers.
package utils
