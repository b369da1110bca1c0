package config

import (
	"os"
)

// Source indicates where a configuration value came from.
type Source string

const (
	// SourceFlag indicates the value came from a command-line flag.
	SourceFlag Source = "flag"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv Source = "env"
	// SourceConfig indicates the value came from the config file.
	SourceConfig Source = "config"
	// SourceDefault indicates the value is the built-in default.
	SourceDefault Source = "default"
)

// ResolveValue resolves one configuration value using precedence:
// (1) flag, (2) environment variable, (3) config file, (4) default.
func ResolveValue(flagValue, envKey, configValue, defaultValue string) (string, Source) {
	if flagValue != "" {
		return flagValue, SourceFlag
	}
	if envKey != "" {
		if env := os.Getenv(envKey); env != "" {
			return env, SourceEnv
		}
	}
	if configValue != "" {
		return configValue, SourceConfig
	}
	return defaultValue, SourceDefault
}
