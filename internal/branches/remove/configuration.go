package remove

import "strings"

// CommandConfiguration captures configuration values for the branch deletion command.
type CommandConfiguration struct {
	RemoteName      string `mapstructure:"remote"`
	DeleteRemote    bool   `mapstructure:"delete_remote"`
	SwitchToDefault bool   `mapstructure:"switch"`
	AssumeYes       bool   `mapstructure:"assume_yes"`
}

// DefaultCommandConfiguration provides baseline configuration values for branch deletion.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:      "",
		DeleteRemote:    false,
		SwitchToDefault: true,
		AssumeYes:       false,
	}
}

// DefaultConfigurationValues exposes deletion defaults keyed beneath the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + ".remote":        defaults.RemoteName,
		configurationPrefix + ".delete_remote": defaults.DeleteRemote,
		configurationPrefix + ".switch":        defaults.SwitchToDefault,
		configurationPrefix + ".assume_yes":    defaults.AssumeYes,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	return sanitized
}
