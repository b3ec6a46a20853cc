// Package config loads listkey settings from an optional YAML file,
// LISTKEY_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DarlingtonDeveloper/listkey/hashid"
	"github.com/DarlingtonDeveloper/listkey/keyer"
)

// Config holds the server, keyer and logging settings shared by the CLI
// and the service.
type Config struct {
	Server struct {
		Port      int    `mapstructure:"port"`
		AuthToken string `mapstructure:"auth_token"`
	} `mapstructure:"server"`

	Keyer struct {
		Hasher    string `mapstructure:"hasher"`
		ProbeWarn int    `mapstructure:"probe_warn"`
	} `mapstructure:"keyer"`

	Log struct {
		Verbose bool `mapstructure:"verbose"`
	} `mapstructure:"log"`
}

// flagKeys maps flag names to config keys. Flags that are not defined on
// the flag set are skipped.
var flagKeys = map[string]string{
	"port":       "server.port",
	"auth-token": "server.auth_token",
	"hasher":     "keyer.hasher",
	"probe-warn": "keyer.probe_warn",
	"verbose":    "log.verbose",
}

// Load builds a Config. Precedence: flags set on the command line, then
// environment (e.g. LISTKEY_KEYER_HASHER=xxh3), then the file, then
// defaults.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("LISTKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.auth_token", "")
	v.SetDefault("keyer.hasher", "sha1")
	v.SetDefault("keyer.probe_warn", keyer.DefaultProbeWarn)
	v.SetDefault("log.verbose", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	if _, err := hashid.ByName(c.Keyer.Hasher); err != nil {
		return fmt.Errorf("keyer.hasher: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	return nil
}

// NewKeyer builds a Keyer from the keyer section. Extra options are
// applied last.
func (c *Config) NewKeyer(log *zap.Logger, extra ...keyer.Option) (*keyer.Keyer, error) {
	h, err := hashid.ByName(c.Keyer.Hasher)
	if err != nil {
		return nil, fmt.Errorf("keyer.hasher: %w", err)
	}
	opts := []keyer.Option{
		keyer.WithHasher(h),
		keyer.WithLogger(log),
		keyer.WithProbeWarn(c.Keyer.ProbeWarn),
	}
	return keyer.New(append(opts, extra...)...), nil
}
