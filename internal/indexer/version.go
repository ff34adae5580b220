package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IndexVersion is the current version of the index schema. Bump it on
// breaking changes to the occurrence record or the database layout; stale
// caches are then cleared and rebuilt.
const IndexVersion = 1

const versionFileName = "index_version"

// CheckAndMigrateCache checks the cache version and clears the cache
// directory when it is outdated. Returns true if the cache was cleared.
func CheckAndMigrateCache(cacheDir string) (bool, error) {
	versionFile := filepath.Join(cacheDir, versionFileName)

	data, err := os.ReadFile(versionFile)
	if err != nil {
		if os.IsNotExist(err) {
			if err := clearCacheDir(cacheDir); err != nil {
				return false, fmt.Errorf("failed to clear cache: %w", err)
			}
			if err := writeVersion(versionFile); err != nil {
				return false, fmt.Errorf("failed to write version: %w", err)
			}
			return true, nil
		}
		return false, fmt.Errorf("failed to read version file: %w", err)
	}

	storedVersion, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || storedVersion != IndexVersion {
		if err := clearCacheDir(cacheDir); err != nil {
			return false, fmt.Errorf("failed to clear cache: %w", err)
		}
		if err := writeVersion(versionFile); err != nil {
			return false, fmt.Errorf("failed to write version: %w", err)
		}
		return true, nil
	}

	return false, nil
}

func clearCacheDir(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(cacheDir, 0755)
		}
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(cacheDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}

func writeVersion(versionFile string) error {
	return os.WriteFile(versionFile, []byte(strconv.Itoa(IndexVersion)), 0644)
}

// CacheDir returns the per-workspace cache directory under the user config
// dir, creating it when absent.
func CacheDir(workspaceRoot string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}

	slug := strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(workspaceRoot)
	dir := filepath.Join(configDir, "codeinclude-lsp", slug)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return dir, nil
}
