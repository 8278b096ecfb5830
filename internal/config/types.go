package config

import "time"

// Config represents the careerdesk configuration document.
type Config struct {
	API       APIConfig       `yaml:"api"`
	UI        UIConfig        `yaml:"ui"`
	Logging   LoggingConfig   `yaml:"logging"`
	Cache     CacheConfig     `yaml:"cache"`
	Materials MaterialsConfig `yaml:"materials"`
}

// APIConfig configures the REST backend client.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url" validate:"required,http_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0,lte=100"`
	Burst             int           `yaml:"burst" validate:"gte=1,lte=100"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	PageSize int    `yaml:"page_size" validate:"min=1,max=100"`
	Unicode  string `yaml:"unicode" validate:"oneof=auto always never"`
}

// LoggingConfig selects log level and destination.
type LoggingConfig struct {
	Level         string `yaml:"level" validate:"log_level"`
	HumanReadable bool   `yaml:"human_readable"`
	File          string `yaml:"file,omitempty"`
}

// CacheConfig controls the offline snapshot cache.
type CacheConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// MaterialsConfig points at the git repository mirrored by `materials sync`.
type MaterialsConfig struct {
	Repository  string `yaml:"repository,omitempty" validate:"omitempty,git_url"`
	Branch      string `yaml:"branch,omitempty" validate:"omitempty,max=100"`
	Destination string `yaml:"destination,omitempty"`
}

// Default values applied before the file is decoded.
const (
	DefaultBaseURL  = "http://localhost:5000/api"
	DefaultTimeout  = 15 * time.Second
	DefaultPageSize = 10
)

// Default returns a configuration usable without any file on disk.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			Timeout:           DefaultTimeout,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		UI: UIConfig{
			PageSize: DefaultPageSize,
			Unicode:  "auto",
		},
		Logging: LoggingConfig{
			Level:         "info",
			HumanReadable: true,
		},
		Materials: MaterialsConfig{
			Branch: "main",
		},
	}
}
