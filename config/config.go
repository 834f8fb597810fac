// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings,
// ex: SHREGEAS_WORKERS=4
const EnvPrefix = "SHREGEAS"

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// File is the path to the input reads
	File string `mapstructure:"file"`

	// Out is reserved for writing contigs to a file. Contigs are always
	// written to stdout for now
	Out string `mapstructure:"out"`

	// Overlap is reserved, it isn't used by the assembly
	Overlap int `mapstructure:"overlap"`

	// Workers is the number of goroutines walking the graph
	Workers int `mapstructure:"workers"`

	// Verbose turns on debug logging
	Verbose bool `mapstructure:"verbose"`

	// Progress shows a progress bar while reads are loaded
	Progress bool `mapstructure:"progress"`

	// Iterations logs the contig count going into every merge pass
	Iterations bool `mapstructure:"iterations"`

	// Metrics is a path to write pipeline metrics to, in the Prometheus
	// text format. Nothing is written if it's empty
	Metrics string `mapstructure:"metrics"`
}

func init() {
	SetDefaults(viper.GetViper())
}

// SetDefaults sets the default for every setting on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workers", 1)
	v.SetDefault("overlap", 0)
	v.SetDefault("verbose", false)
	v.SetDefault("progress", false)
	v.SetDefault("iterations", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// New returns a new Config struct populated by the global Viper
// settings: the settings file (if one was passed), environment
// variables and command line arguments
func New() (*Config, error) {
	return FromViper(viper.GetViper())
}

// FromViper returns the Config held by v. If v has a "settings" path, that
// file is read first and its values sit beneath flags and environment variables
func FromViper(v *viper.Viper) (*Config, error) {
	if settings := v.GetString("settings"); settings != "" {
		v.SetConfigFile(settings)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", settings, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Workers < 0 {
		c.Workers = runtime.NumCPU()
	}

	return &c, nil
}
