package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for loader CLI configuration.
const envPrefix = "TSL"

// CLIConfig is the CLI-level configuration, merged from config file and
// environment. It supplies defaults for flags, not the host option schema.
type CLIConfig struct {
	// TSConfig is the default project configuration path.
	// Env: TSL_TSCONFIG
	TSConfig string `mapstructure:"tsconfig"`

	// ExternDir is the default extern directory.
	// Env: TSL_EXTERN_DIR
	ExternDir string `mapstructure:"externDir"`

	// Service selects the transform service: "typescript" or "tsickle".
	// Env: TSL_SERVICE
	Service string `mapstructure:"service"`

	// TsickleCommand is the bridge executable for the tsickle service.
	// Env: TSL_TSICKLE_COMMAND
	TsickleCommand string `mapstructure:"tsickleCommand"`

	// OutDir is where the build command writes corrected code.
	// Env: TSL_OUT_DIR
	OutDir string `mapstructure:"outDir"`
}

// Loader handles loading and merging CLI configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("tsconfig", "TSL_TSCONFIG")
	_ = v.BindEnv("externDir", "TSL_EXTERN_DIR")
	_ = v.BindEnv("service", "TSL_SERVICE")
	_ = v.BindEnv("tsickleCommand", "TSL_TSICKLE_COMMAND")
	_ = v.BindEnv("outDir", "TSL_OUT_DIR")

	return &Loader{v: v}
}

// Load loads configuration from the given file path. An empty path uses the
// default config file name in the working directory; a missing file is not an
// error, environment values still apply.
func (l *Loader) Load(configFile string) (*CLIConfig, error) {
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	l.v.SetConfigFile(configFile)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg CLIConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigFile is the CLI config file looked up when --config is unset.
const DefaultConfigFile = ".tsickle-loader.yaml"
