// Copyright 2025 The Shinobi Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shinobi-build/shinobi"
	"github.com/shinobi-build/shinobi/pathtools"
)

const (
	// ConfigFileName is the name, without extension, of the configuration
	// file looked up in the working directory.
	ConfigFileName = ".shinobi"

	// EnvPrefix prefixes the environment variables that configure shinobi.
	EnvPrefix = "SHINOBI"
)

// Config is the effective configuration of a shinobi run.
type Config struct {
	Out              string `mapstructure:"out" yaml:"out"`
	Depfile          string `mapstructure:"depfile" yaml:"depfile"`
	BuildDir         string `mapstructure:"builddir" yaml:"builddir"`
	FSPathSeparator  string `mapstructure:"fs_path_separator" yaml:"fs_path_separator"`
	APIPathSeparator string `mapstructure:"api_path_separator" yaml:"api_path_separator"`
	Verbose          bool   `mapstructure:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	seps := pathtools.DefaultSeparators()
	return Config{
		BuildDir:         shinobi.DefaultBuildDir,
		FSPathSeparator:  seps.FS,
		APIPathSeparator: seps.API,
	}
}

// Separators returns the path-separator policy the configuration asks for.
func (c Config) Separators() (pathtools.Separators, error) {
	return pathtools.ParseSeparators(c.FSPathSeparator, c.APIPathSeparator)
}

// Validate checks the configuration for settings that cannot be used
// together.
func (c Config) Validate() error {
	if c.Depfile != "" && c.Out == "" {
		return errors.New("--depfile requires --out")
	}
	if _, err := c.Separators(); err != nil {
		return err
	}
	return nil
}

// LoadOptions controls where LoadConfig looks for configuration.
type LoadOptions struct {
	// ConfigFile forces loading from a specific file when set.
	ConfigFile string
	// SearchDir is the directory searched for ConfigFileName when
	// ConfigFile is not set.  No file is searched for if it is empty.
	SearchDir string
	// Flags are the command-line flags, bound by name to the matching keys.
	Flags *pflag.FlagSet
}

var flagKeys = map[string]string{
	"out":                "out",
	"depfile":            "depfile",
	"fs-path-separator":  "fs_path_separator",
	"api-path-separator": "api_path_separator",
	"verbose":            "verbose",
}

// LoadConfig builds the configuration from, in increasing order of
// precedence: the defaults, the configuration file, the environment and the
// command-line flags that were set.
func LoadConfig(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("out", defaults.Out)
	v.SetDefault("depfile", defaults.Depfile)
	v.SetDefault("builddir", defaults.BuildDir)
	v.SetDefault("fs_path_separator", defaults.FSPathSeparator)
	v.SetDefault("api_path_separator", defaults.APIPathSeparator)
	v.SetDefault("verbose", defaults.Verbose)

	switch {
	case opts.ConfigFile != "":
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
	case opts.SearchDir != "":
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(opts.SearchDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("builddir", EnvPrefix+"_BUILDDIR", "BUILDDIR"); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
