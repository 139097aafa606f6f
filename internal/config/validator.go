package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/aleister1102/rankwatch/internal/urlhandler"
	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure. The
// returned error wraps common.ErrInvalidConfiguration so callers can map it
// to the startup exit code.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for absolute http(s) URLs
	_ = validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		rawURL := fl.Field().String()
		if rawURL == "" {
			return true // Optional field, valid if empty
		}
		return urlhandler.ValidateURLFormat(rawURL) == nil
	})

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var messages []string
		for _, e := range errs {
			msg := fmt.Sprintf("validation failed for '%s': rule '%s'", e.StructNamespace(), e.Tag())
			if e.Param() != "" {
				msg += fmt.Sprintf(" (expected: %s)", e.Param())
			}
			if e.Value() != nil && e.Value() != "" {
				msg += fmt.Sprintf(", actual: '%v'", e.Value())
			}
			messages = append(messages, msg)
		}
		return common.WrapErrorf(common.ErrInvalidConfiguration, "configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return common.WrapError(common.ErrInvalidConfiguration, err.Error())
}
