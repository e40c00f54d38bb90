package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct-tag validation plus the rules that can't be expressed
// in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]int)
	for i, t := range cfg.Tracks {
		if j, dup := seen[t.Path]; dup {
			return fmt.Errorf("tracks[%d]: duplicate path %q (also tracks[%d])", i, t.Path, j)
		}
		seen[t.Path] = i
	}

	return validPermittedIPs(cfg.PermittedIPs)
}

func formatValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		e := errs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
