package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// envKey is the environment variable used to override the default workspace root.
	envKey = "CONVSIM_WORKSPACE"

	// defaultRootDir is used when the env variable is not defined.
	defaultRootDir = ".convsim"

	// ConfigFile is the workspace configuration file name.
	ConfigFile = "config.yaml"
)

// Predefined kinds.
const (
	KindConversations = "conversations"
	KindPrompts       = "prompts"
)

var (
	mux        sync.Mutex
	cachedRoot string
)

// Root returns the absolute path to the workspace directory.
// The lookup order is:
//  1. $CONVSIM_WORKSPACE environment variable, if set and non-empty
//  2. ./.convsim
//
// The result is cached until the environment variable changes.
func Root() string {
	mux.Lock()
	defer mux.Unlock()
	if env := strings.TrimSpace(os.Getenv(envKey)); env != "" {
		if root := abs(expandUserHome(env)); root != cachedRoot {
			cachedRoot = root
			_ = os.MkdirAll(cachedRoot, 0755)
		}
		return cachedRoot
	}
	if cachedRoot != "" {
		return cachedRoot
	}
	cachedRoot = abs(defaultRootDir)
	_ = os.MkdirAll(cachedRoot, 0755)
	return cachedRoot
}

// Path returns a sub-path under the root for the given kind (e.g. "conversations").
func Path(kind string) string {
	return filepath.Join(Root(), kind)
}

// ConfigPath returns the workspace config file location.
func ConfigPath() string {
	return filepath.Join(Root(), ConfigFile)
}

// ResolvePathTemplate expands ${workspaceRoot}, ${home} and a leading ~ in a path or URL.
func ResolvePathTemplate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return v
	}
	if strings.Contains(v, "${workspaceRoot}") {
		v = strings.ReplaceAll(v, "${workspaceRoot}", Root())
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		v = strings.ReplaceAll(v, "${home}", home)
	}
	return expandUserHome(v)
}

func expandUserHome(v string) string {
	trimmed := strings.TrimSpace(v)
	if !strings.HasPrefix(trimmed, "~/") && trimmed != "~" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return v
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
}

// abs converts p into an absolute, clean path. If an error occurs it returns p
// unchanged – the caller tolerates relative paths.
func abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if absPath, err := filepath.Abs(p); err == nil {
		return absPath
	}
	return filepath.Clean(p)
}
