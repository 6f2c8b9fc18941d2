package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// insecureSecrets are placeholder values that must never reach production.
var insecureSecrets = map[string]bool{
	"your-secret-key":                  true,
	"changeme-changeme":                true,
	"development-secret-do-not-deploy": true,
}

// ValidateConfig checks field rules plus the environment-specific requirements.
func ValidateConfig(cfg *Config) error {
	var problems []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
	}

	if cfg.Environment.IsProduction() {
		if cfg.Database.Driver != "postgres" {
			problems = append(problems, "Config.Database.Driver: production requires postgres")
		}
		if cfg.Database.Password == "" {
			problems = append(problems, "Config.Database.Password: db_password secret is required")
		}
		if insecureSecrets[cfg.Auth.JWTSecret] {
			problems = append(problems, "Config.Auth.JWTSecret: placeholder secret in production")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
