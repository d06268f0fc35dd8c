package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the configuration using struct tags
func ValidateConfig(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				return fmt.Errorf("field '%s' failed validation: %s", fieldError.Namespace(), fieldError.Tag())
			}
		}
		return err
	}

	if cfg.Database.Type == "postgres" && cfg.Database.URL == "" && cfg.Database.Name == "" {
		return fmt.Errorf("postgres database requires either a url or a database name")
	}
	return nil
}
