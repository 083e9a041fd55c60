package config

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	envPrefix     = "TTF_"
	envConfigFile = "TTF_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TTF_CONFIG is set
//  3. env (prefix TTF_)
func Load(ctx context.Context) (*Config, error) {
	cfg := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like TTF_POOL_SIZE -> pool_size (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// TTF_SEED_WEIGHTS=1,1,1.1,1.2 arrives as a single string.
	dc := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToFloatSliceHook(","),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           cfg,
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: dc}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringToFloatSliceHook splits a delimited string into a []float64.
// StringToSliceHookFunc only targets []string.
func stringToFloatSliceHook(sep string) mapstructure.DecodeHookFuncType {
	floats := reflect.TypeOf([]float64(nil))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != floats {
			return data, nil
		}
		raw := strings.TrimSpace(reflect.ValueOf(data).String())
		if raw == "" {
			return []float64{}, nil
		}
		parts := strings.Split(raw, sep)
		out := make([]float64, len(parts))
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("parse %q: %w", part, err)
			}
			out[i] = v
		}
		return out, nil
	}
}

// Validate checks field values that koanf cannot type-check.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RateSearchMode != "ratchet" && c.RateSearchMode != "independent":
		return fmt.Errorf("%w: unknown rate_search_mode %q", ErrInvalidConfig, c.RateSearchMode)
	case c.OutputFormat != "text" && c.OutputFormat != "json":
		return fmt.Errorf("%w: unknown output_format %q", ErrInvalidConfig, c.OutputFormat)
	case !(c.RateStep > 0):
		return fmt.Errorf("%w: rate_step must be positive", ErrInvalidConfig)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
