package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
)

// IsRemote reports whether path is a go-getter URL rather than a local file.
func IsRemote(path string) bool {
	return strings.Contains(path, "://") || strings.Contains(path, "::")
}

// Resolve makes a config path usable locally. Remote paths are downloaded
// into cacheDir; local paths pass through unchanged.
func Resolve(path, cacheDir string) (string, error) {
	if !IsRemote(path) {
		return path, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(cacheDir, "terrain.yaml")
	if err := getter.GetFile(dst, path); err != nil {
		return "", fmt.Errorf("fetch config %s: %w", path, err)
	}
	return dst, nil
}
