package commands

import (
	"fmt"
	"time"

	"mejlis-roster/internal/constituency"
	"mejlis-roster/internal/roster"
	"mejlis-roster/internal/store"
	"mejlis-roster/internal/wikipedia"
	"mejlis-roster/lib/configutil"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
)

const DefaultConfigPath = "roster.json5"

type Config struct {
	Url            string       `json:"url"`
	Constituencies string       `json:"constituencies"`
	Format         string       `json:"format"`
	Timeout        string       `json:"timeout"`
	DumpHttp       string       `json:"dump_http"`
	Verbose        bool         `json:"verbose"`
	Database       store.Config `json:"database"`
}

func DefaultConfig() Config {
	return Config{
		Url:            wikipedia.DefaultPageURL,
		Constituencies: constituency.DefaultPath,
		Format:         roster.FormatCSV,
	}
}

func (c Config) Validate() error {
	switch c.Format {
	case roster.FormatCSV, roster.FormatTable:
	default:
		return fmt.Errorf("unknown output format %q, expected %q or %q", c.Format, roster.FormatCSV, roster.FormatTable)
	}
	if c.Timeout != "" {
		_, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	return nil
}

// TimeoutDuration returns the parsed timeout, 0 if unset.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// loadConfig layers the defaults, the config file (and its .local override)
// and the flags that were set explicitly, in that order.
func loadConfig(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()
	cfg := DefaultConfig()

	path, err := flags.GetString("config")
	if err != nil {
		return cfg, err
	}
	var fileCfg Config
	if flags.Changed("config") {
		fileCfg, err = configutil.ReadConfig[Config](path)
	} else {
		fileCfg, err = configutil.ReadOptional[Config](path)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	err = mergo.Merge(&cfg, fileCfg, mergo.WithOverride)
	if err != nil {
		return cfg, err
	}

	stringFlags := map[string]*string{
		"url":            &cfg.Url,
		"constituencies": &cfg.Constituencies,
		"format":         &cfg.Format,
		"timeout":        &cfg.Timeout,
		"dump-http":      &cfg.DumpHttp,
	}
	for name, target := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		*target, err = flags.GetString(name)
		if err != nil {
			return cfg, err
		}
	}
	if flags.Changed("db") {
		file, err := flags.GetString("db")
		if err != nil {
			return cfg, err
		}
		cfg.Database = store.Config{File: file}
	}
	if flags.Changed("verbose") {
		cfg.Verbose, err = flags.GetBool("verbose")
		if err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}
