package prmerge

import "strings"

// CommandConfiguration captures configuration values for the pull request merge command.
type CommandConfiguration struct {
	RemoteName string `mapstructure:"remote"`
	PushBase   bool   `mapstructure:"push"`
}

// DefaultCommandConfiguration provides baseline configuration values for pull request merges.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName: "",
		PushBase:   false,
	}
}

// DefaultConfigurationValues exposes merge defaults keyed beneath the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + ".remote": defaults.RemoteName,
		configurationPrefix + ".push":   defaults.PushBase,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	return sanitized
}
