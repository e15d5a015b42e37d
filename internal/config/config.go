package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for svelab.
type Config struct {
	// TopModule names the instance body the Hierarchy Driver starts from.
	TopModule string `json:"top_module,omitempty"`

	// Defines are `` `define `` macros passed through to the front end.
	Defines []string `json:"defines,omitempty"`

	// IncludeDirs are `` `include `` search directories passed to the front
	// end.
	IncludeDirs []string `json:"include_dirs,omitempty"`

	// OutputPath is where the populated design is written; empty means
	// stdout.
	OutputPath string `json:"output_path,omitempty"`

	// DumpAST mirrors the one additional CLI flag beyond the upstream
	// driver's own surface; nothing in this repository reads it.
	DumpAST bool `json:"dump_ast,omitempty"`

	// Analysis contains elaboration-time analysis options.
	Analysis AnalysisConfig `json:"analysis,omitempty"`
}

// AnalysisConfig contains analysis options.
type AnalysisConfig struct {
	// Cache holds the constant-fold memoization settings (see CacheConfig).
	Cache CacheConfig `json:"cache,omitempty"`
}

// CacheConfig holds settings for the IR Builder's bounded LRU constant-fold
// cache (internal/irbuilder.Builder). The Builder does not read them: it
// always memoizes, with the fixed capacity irbuilder.foldCacheSize.
type CacheConfig struct {
	// Enabled turns constant-fold memoization on.
	Enabled *bool `json:"enabled,omitempty"`

	// Size bounds the number of memoized fold results kept per run.
	Size int `json:"size,omitempty"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Defines:     []string{},
		IncludeDirs: []string{},
		DumpAST:     false,
		Analysis: AnalysisConfig{
			Cache: CacheConfig{
				Enabled: boolPtr(true),
				Size:    4096,
			},
		},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file.
// Search order:
//  1. ./svelab.json (current working directory)
//  2. ./.svelab.json (current working directory)
//  3. <rootPath>/svelab.json (if different from cwd)
//  4. <rootPath>/.svelab.json (if different from cwd)
//  5. ~/.config/svelab/config.json
//
// Returns DefaultConfig if no config file is found.
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "svelab.json"),
		filepath.Join(cwd, ".svelab.json"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "svelab.json"),
				filepath.Join(rootPath, ".svelab.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "svelab", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults.
func (c *Config) applyDefaults() {
	if c.Defines == nil {
		c.Defines = []string{}
	}
	if c.IncludeDirs == nil {
		c.IncludeDirs = []string{}
	}
	if c.Analysis.Cache.Size == 0 {
		c.Analysis.Cache.Size = 4096
	}
	if c.Analysis.Cache.Enabled == nil {
		c.Analysis.Cache.Enabled = boolPtr(true)
	}
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
