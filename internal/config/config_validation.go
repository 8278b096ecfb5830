package config

import (
	"time"

	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// MaxTimeout bounds api.timeout.
const MaxTimeout = 5 * time.Minute

// ValidateConfig performs structural and cross-field validation on an entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return apperrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if cfg.API.Timeout <= 0 || cfg.API.Timeout > MaxTimeout {
		return apperrors.NewValidationError("api.timeout", "timeout must be positive and at most 5m", nil)
	}

	if cfg.Materials.Repository != "" && cfg.Materials.Destination == "" {
		return apperrors.NewValidationError("materials.destination", "destination is required when a repository is set", nil)
	}

	return nil
}
