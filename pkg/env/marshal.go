package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const redacted = "********"

var secretMarkers = []string{"KEY", "TOKEN", "SECRET", "PASSWORD"}

// MarshalEnv renders the env-tagged fields of one or more config structs as
// .env lines. Zero values are skipped; values of secret-looking keys are
// redacted unless reveal is set. Redis URLs carrying credentials count as secrets.
func MarshalEnv(reveal bool, configs ...any) (string, error) {
	var lines []string
	for _, c := range configs {
		v := reflect.ValueOf(c)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return "", fmt.Errorf("env: expected struct, got %s", v.Kind())
		}
		lines = append(lines, marshalStruct(v, reveal)...)
	}

	result := strings.Join(lines, "\n")
	if result != "" && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result, nil
}

func marshalStruct(v reflect.Value, reveal bool) []string {
	var lines []string
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		val := v.Field(i)
		if field.Type.Kind() == reflect.Struct && field.Tag.Get("env") == "" {
			lines = append(lines, marshalStruct(val, reveal)...)
			continue
		}

		// Parse tag: "KEY,required,notEmpty" or "KEY"
		key := strings.Split(field.Tag.Get("env"), ",")[0]
		if key == "" || isZeroValue(val) {
			continue
		}

		strVal := formatValue(val)
		if !reveal && isSecret(key, strVal) {
			strVal = redacted
		}
		lines = append(lines, fmt.Sprintf("%s=%s", key, strVal))
	}
	return lines
}

func isSecret(key, value string) bool {
	for _, m := range secretMarkers {
		if strings.Contains(key, m) {
			return true
		}
	}
	return strings.Contains(value, "@") && strings.Contains(value, "://")
}

// isZeroValue checks if a reflect.Value is the zero value for its type
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

// formatValue converts a reflect.Value to its string representation
func formatValue(v reflect.Value) string {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
