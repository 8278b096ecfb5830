package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/careerdesk/internal/paths"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// Environment variables that override file settings.
const (
	EnvAPIURL   = "CAREERDESK_API_URL"
	EnvLogLevel = "CAREERDESK_LOG_LEVEL"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseConfig loads a configuration file from disk, validates it, and returns the resulting model.
// Keys missing from the file keep their defaults.
func ParseConfig(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	if err := resolvePaths(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load resolves the effective configuration. An empty path means the default
// location, where a missing file falls back to defaults; an explicit path must
// exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = paths.ConfigFile()
		if err != nil {
			return nil, apperrors.NewParseError("config", 0, err)
		}
	}

	cfg, err := decodeFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return nil, err
	}

	applyEnv(cfg, os.LookupEnv)

	if err := resolvePaths(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewParseError(path, 0, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && strings.TrimSpace(v) != "" {
		cfg.API.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// resolvePaths expands ~ and fills in the per-user default locations.
func resolvePaths(cfg *Config) error {
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	targets := []struct {
		value    *string
		fallback func() (string, error)
	}{
		{&cfg.Logging.File, paths.LogFile},
		{&cfg.Cache.Dir, paths.CacheDir},
		{&cfg.Materials.Destination, paths.MaterialsDir},
	}

	for _, target := range targets {
		if strings.TrimSpace(*target.value) == "" {
			resolved, err := target.fallback()
			if err != nil {
				return apperrors.NewValidationError("paths", "cannot resolve home directory", err)
			}
			*target.value = resolved
			continue
		}

		expanded, err := paths.Expand(*target.value)
		if err != nil {
			return apperrors.NewValidationError("paths", fmt.Sprintf("cannot expand %q", *target.value), err)
		}
		*target.value = expanded
	}

	return nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
