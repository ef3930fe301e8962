package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/goccy/go-yaml"
)

// LoadFile layers defaults, the YAML file at path and the environment, in
// that order. An empty path is the same as Load.
func LoadFile(path string) (*Config, error) {
	fromEnv, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return fromEnv, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	merged := Default()
	if err := yaml.Unmarshal(data, merged); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	preferEnv(reflect.ValueOf(merged).Elem(), reflect.ValueOf(fromEnv).Elem())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// preferEnv copies every field whose environment variable is set from env
// into dst.
func preferEnv(dst, env reflect.Value) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() == reflect.Struct {
			preferEnv(dst.Field(i), env.Field(i))
			continue
		}
		key := field.Tag.Get("envconfig")
		if key == "" {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			dst.Field(i).Set(env.Field(i))
		}
	}
}
