// Package paths resolves the on-disk locations careerdesk reads and writes.
package paths

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// AppDirName is the directory under $HOME holding all careerdesk state.
const AppDirName = ".careerdesk"

func init() {
	// HOME can change between invocations in tests and wrappers.
	homedir.DisableCache = true
}

// Expand resolves a leading ~ to the user's home directory.
func Expand(path string) (string, error) {
	return homedir.Expand(path)
}

// AppDir returns ~/.careerdesk.
func AppDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppDirName), nil
}

func inAppDir(elem ...string) (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// ConfigFile returns the default config path.
func ConfigFile() (string, error) { return inAppDir("config.yaml") }

// LogFile returns the default TUI log path.
func LogFile() (string, error) { return inAppDir("careerdesk.log") }

// CacheDir returns the default snapshot cache directory.
func CacheDir() (string, error) { return inAppDir("cache") }

// BookmarksFile returns the saved listings store.
func BookmarksFile() (string, error) { return inAppDir("saved.json") }

// MaterialsDir returns the default checkout location for study materials.
func MaterialsDir() (string, error) { return inAppDir("materials") }
