package tmplcore

import (
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the engine's ambient configuration, grounded on
// cmd/lvt/internal/config's YAML-backed defaults-and-validation pattern
// (SPEC_FULL.md AMBIENT STACK). It never names a template file on disk —
// file loading stays outside the core per spec.md §1.
type Config struct {
	// MaxRecursionDepth bounds nested {{template}} invocation depth,
	// converting a runaway recursive template into a
	// TemplateRecursionTooDeep error rather than a stack overflow
	// (spec.md §5, §9 "Open questions").
	MaxRecursionDepth int `yaml:"maxRecursionDepth" validate:"required,gt=0"`

	// StrictFieldAccess, when true, is reserved for callers that want
	// Map field misses to behave like Object ones; the core evaluator
	// itself always follows spec.md §4.3 (Map miss -> NoValue, Object
	// miss -> error) regardless of this flag — it exists so embedding
	// applications can express their own stricter policy without
	// touching the evaluator.
	StrictFieldAccess bool `yaml:"strictFieldAccess"`

	// Locale, when set, selects locale-aware numeric grouping for the
	// Output Formatter via golang.org/x/text (SPEC_FULL.md DOMAIN
	// STACK), e.g. "en-US". Empty means spec.md's plain canonical form.
	Locale string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
}

var configValidator = validator.New()

// DefaultConfig returns the engine's default configuration: a generous
// but finite recursion ceiling, plain (non-locale) numeric formatting,
// and spec-faithful field access.
func DefaultConfig() *Config {
	return &Config{
		MaxRecursionDepth: 100000,
		StrictFieldAccess: false,
		Locale:            "",
	}
}

// LoadConfig decodes YAML configuration from r over the defaults and
// validates the result, following the teacher's config.go convention of
// validating struct tags with go-playground/validator.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, wrapError(UnformattableValue, err, "failed to decode config")
	}
	if err := configValidator.Struct(cfg); err != nil {
		return nil, wrapError(UnformattableValue, err, "invalid config")
	}
	return cfg, nil
}
