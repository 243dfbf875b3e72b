package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every network variable, e.g. XSEND_MASTODON_SERVER.
const EnvPrefix = "XSEND"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("envconfig")
	})
	return v
}

// LoadEnv fills cfg, a pointer to a struct tagged for envconfig and
// validator, from the XSEND_<PROVIDER>_* variables.
func LoadEnv(provider string, cfg any) error {
	prefix := EnvPrefix + "_" + strings.ToUpper(provider)
	if err := envconfig.Process(prefix, cfg); err != nil {
		return ValidationError{Provider: provider, Reason: err.Error()}
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %s config: %w", provider, err)
	}

	var missing, reasons []string
	for _, fe := range fieldErrs {
		name := prefix + "_" + fe.Field()
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		reasons = append(reasons, fmt.Sprintf("%s must be a valid %s", name, fe.Tag()))
	}
	if len(missing) > 0 {
		return MissingEnvError{Provider: provider, Variables: missing}
	}
	return ValidationError{Provider: provider, Reason: strings.Join(reasons, "; ")}
}
