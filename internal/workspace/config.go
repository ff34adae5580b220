package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ConfigFilename is the optional per-project configuration file, looked up
// at the workspace root.
const ConfigFilename = ".codeinclude.json"

// Config holds the workspace settings. The only recognized option is
// rootDirectory: when set it supersedes root discovery entirely and becomes
// the base directory for every document.
type Config struct {
	workspaceRoot string

	mu            sync.RWMutex
	rootDirectory string
}

// LoadConfig reads the config file at the workspace root. A missing or
// unreadable file yields an empty config.
func LoadConfig(workspaceRoot string) *Config {
	cfg := &Config{workspaceRoot: workspaceRoot}

	data, err := os.ReadFile(filepath.Join(workspaceRoot, ConfigFilename))
	if err != nil {
		return cfg
	}

	cfg.rootDirectory = gjson.GetBytes(data, "rootDirectory").String()
	return cfg
}

// ApplyInitializationOptions merges settings passed by the client in the
// initialize request. Client-provided options win over the config file.
func (c *Config) ApplyInitializationOptions(raw []byte) {
	if len(raw) == 0 {
		return
	}
	if dir := gjson.GetBytes(raw, "rootDirectory"); dir.Exists() {
		c.mu.Lock()
		c.rootDirectory = dir.String()
		c.mu.Unlock()
	}
}

// RootOverride returns the configured root directory as an absolute path.
// Relative values are resolved against the workspace root.
func (c *Config) RootOverride() (string, bool) {
	c.mu.RLock()
	dir := c.rootDirectory
	c.mu.RUnlock()

	if dir == "" {
		return "", false
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.workspaceRoot, dir)
	}
	return filepath.Clean(dir), true
}

// SetRootDirectory updates the override and persists it into the config
// file, creating the file when absent and preserving any other keys.
func (c *Config) SetRootDirectory(dir string) error {
	configPath := filepath.Join(c.workspaceRoot, ConfigFilename)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", configPath, err)
		}
		data = []byte("{}")
	}

	updated, err := sjson.SetBytes(data, "rootDirectory", dir)
	if err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}

	if err := os.WriteFile(configPath, pretty.Pretty(updated), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	c.mu.Lock()
	c.rootDirectory = dir
	c.mu.Unlock()

	return nil
}
