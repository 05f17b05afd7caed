package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/peekknuf/rankstat/internal/schema"
)

const (
	EnvPrefix = "RANKSTAT"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultFileName  = ".rankstat.yaml"
)

var (
	validate = validator.New()

	// ErrUnknownSchema is returned when a schema name is not configured
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrUnknownField is returned when a schema has no field of that name
	ErrUnknownField = errors.New("unknown schema field")
)

func init() {
	validate.RegisterStructValidation(schemaValidation, Schema{})
}

type (
	// Config defines all rankstat settings.
	Config struct {
		LogLevel  string   `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error"`
		LogFormat string   `mapstructure:"log_format" validate:"required,oneof=text json"`
		Delimiter string   `mapstructure:"delimiter"`
		Workers   int      `mapstructure:"workers" validate:"gte=0"` // 0 sizes the pool from CPUs and input size
		Schemas   []Schema `mapstructure:"schemas" validate:"dive"`
	}

	// Schema is a named set of column fields for one kind of file.
	Schema struct {
		Name   string         `mapstructure:"name" validate:"required"`
		Fields []schema.Field `mapstructure:"fields" validate:"required,gt=0,dive"`
	}
)

// schemaValidation rejects schemas that declare a field name twice.
func schemaValidation(sl validator.StructLevel) {
	s := sl.Current().Interface().(Schema)

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, ok := seen[f.Name]; ok {
			sl.ReportError(s.Fields, "fields", "Fields", "uniquefieldnames", f.Name)
			return
		}
		seen[f.Name] = struct{}{}
	}
}

// Validate returns an error if the Config object is invalid.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Schema returns the schema with the given name.
func (c Config) Schema(name string) (Schema, error) {
	for _, s := range c.Schemas {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}

	names := make([]string, len(c.Schemas))
	for i, s := range c.Schemas {
		names[i] = s.Name
	}
	return Schema{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownSchema, name, strings.Join(names, ", "))
}

// Select returns the named fields of s in the order requested.
func (s Schema) Select(names ...string) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		found := false
		for _, f := range s.Fields {
			if f.Name == name {
				fields = append(fields, f)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w %q in schema %s", ErrUnknownField, name, s.Name)
		}
	}
	return fields, nil
}

// Load reads configuration from path, or from $HOME/.rankstat.yaml when
// path is empty and that file exists. Environment variables prefixed with
// RANKSTAT_ override file values. Built-in schemas are always present;
// a configured schema with the same name replaces the built-in one.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("delimiter", "auto")
	v.SetDefault("workers", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Allow nested env vars to be read with underscore separators.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, defaultFileName)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		trimSliceHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Schemas = mergeSchemas(BuiltinSchemas(), cfg.Schemas)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// trimSliceHook trims whitespace from every string decoded into a []string,
// so "2007 pop, pop 2007" and a YAML list decode alike.
func trimSliceHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.Slice {
			return data, nil
		}
		items, ok := data.([]string)
		if !ok {
			return data, nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	}
}

func mergeSchemas(builtin, configured []Schema) []Schema {
	merged := make([]Schema, 0, len(builtin)+len(configured))
	overridden := make(map[string]bool, len(configured))
	for _, s := range configured {
		overridden[strings.ToLower(s.Name)] = true
	}
	for _, s := range builtin {
		if !overridden[strings.ToLower(s.Name)] {
			merged = append(merged, s)
		}
	}
	return append(merged, configured...)
}
