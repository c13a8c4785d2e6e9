// Package config handles loading tasks configuration files.
//
// Settings come from the global ~/.config/tasks/config.toml and may be
// overridden per workspace by a .tasks.toml file in the workspace root.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/amonks/tasks/internal/paths"
)

// ProjectFile is the per-workspace override file.
const ProjectFile = ".tasks.toml"

// DefaultSyncTimeout applies when no sync timeout is configured.
const DefaultSyncTimeout = 30 * time.Second

// Config represents a tasks configuration file.
type Config struct {
	Workspace Workspace `toml:"workspace"`
	Sync      Sync      `toml:"sync"`
	Display   Display   `toml:"display"`
}

// Workspace contains workspace-related configuration.
type Workspace struct {
	// DefaultList names the list new tasks go to when none is given.
	DefaultList string `toml:"default-list"`
}

// Sync contains WebDAV sync configuration.
type Sync struct {
	// Timeout bounds each HTTP request, e.g. "45s".
	Timeout time.Duration `toml:"timeout"`
	// BasePath is used when the workspace itself records none.
	BasePath string `toml:"base-path"`
}

// Display contains output configuration.
type Display struct {
	// Markdown renders task descriptions through a terminal markdown renderer.
	Markdown bool `toml:"markdown"`
}

// SyncTimeout returns the configured timeout or DefaultSyncTimeout.
func (c *Config) SyncTimeout() time.Duration {
	if c == nil || c.Sync.Timeout <= 0 {
		return DefaultSyncTimeout
	}
	return c.Sync.Timeout
}

// Load loads configuration from the workspace root and the global config
// file. Missing files are skipped; an empty root reads only the global file.
func Load(workspaceRoot string) (*Config, error) {
	globalPath, err := paths.DefaultConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta := &Config{}, toml.MetaData{}
	if workspaceRoot != "" {
		projectCfg, projectMeta, err = loadConfigFile(filepath.Join(workspaceRoot, ProjectFile))
		if err != nil {
			return nil, err
		}
	}

	return mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Workspace.DefaultList = mergeString(projectMeta.IsDefined("workspace", "default-list"), projectCfg.Workspace.DefaultList, globalCfg.Workspace.DefaultList)
	merged.Sync.BasePath = strings.Trim(mergeString(projectMeta.IsDefined("sync", "base-path"), projectCfg.Sync.BasePath, globalCfg.Sync.BasePath), "/")

	merged.Sync.Timeout = globalCfg.Sync.Timeout
	if projectMeta.IsDefined("sync", "timeout") {
		merged.Sync.Timeout = projectCfg.Sync.Timeout
	}

	merged.Display.Markdown = true
	if projectMeta.IsDefined("display", "markdown") {
		merged.Display.Markdown = projectCfg.Display.Markdown
	} else if globalMeta.IsDefined("display", "markdown") {
		merged.Display.Markdown = globalCfg.Display.Markdown
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
