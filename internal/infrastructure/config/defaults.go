package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Default returns the configuration spelled out by the `default` struct
// tags, the same values envconfig falls back to.
func Default() *Config {
	var cfg Config
	if err := applyDefaults(reflect.ValueOf(&cfg).Elem()); err != nil {
		panic(err)
	}
	return &cfg
}

func applyDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if field.Type.Kind() == reflect.Struct {
			if err := applyDefaults(fv); err != nil {
				return err
			}
			continue
		}
		def, ok := field.Tag.Lookup("default")
		if !ok {
			continue
		}
		if err := setDefault(fv, def); err != nil {
			return fmt.Errorf("config: default for %s.%s: %w", t.Name(), field.Name, err)
		}
	}
	return nil
}

func setDefault(fv reflect.Value, def string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(def)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(def)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(def, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(def)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}
