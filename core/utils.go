package core

import (
	"fmt"
	urlpkg "net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ToBool interprets the loosely typed flags the server returns ("true", "1",
// "yes", numbers and so on) as a bool.
func ToBool(val any) (bool, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true, nil
		case "false", "0", "no", "n", "off", "":
			return false, nil
		}
		return false, fmt.Errorf("cannot interpret %q as bool", v)
	case int, int8, int16, int32, int64:
		return reflect.ValueOf(v).Int() != 0, nil
	case uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(v).Uint() != 0, nil
	case float32, float64:
		return reflect.ValueOf(v).Float() != 0, nil
	default:
		return false, fmt.Errorf("unexpected type for bool conversion: %T", v)
	}
}

func toInt(val any) (int64, error) {
	var idInt int64
	switch v := val.(type) {
	case int64:
		idInt = v
	case float64:
		idInt = int64(v)
	case int:
		idInt = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("unexpected value for int field: %q", v)
		}
		idInt = parsed
	default:
		return 0, fmt.Errorf("unexpected type for int field: %T", v)
	}
	return idInt, nil
}

// convertMapToQuery converts a map[string]any to a URL query string.
// Values are stringified using fmt.Sprint.
func convertMapToQuery(params Params) string {
	values := urlpkg.Values{}
	for k, v := range params {
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

// structToMap converts a struct to a map using reflection, respecting json
// tags. Fields tagged "-" and empty omitempty fields are skipped.
func structToMap(item any) map[string]any {
	res := map[string]any{}
	if item == nil {
		return res
	}
	reflectValue := reflect.Indirect(reflect.ValueOf(item))
	if reflectValue.Kind() != reflect.Struct {
		return res
	}
	v := reflectValue.Type()
	for i := 0; i < v.NumField(); i++ {
		field := reflectValue.Field(i)
		if !field.CanInterface() {
			continue
		}
		tagName, omitEmpty := parseJSONTag(v.Field(i).Tag.Get("json"))
		if tagName == "" || tagName == "-" {
			continue
		}
		switch {
		case field.Kind() == reflect.Ptr:
			if field.IsNil() {
				if omitEmpty {
					continue
				}
				res[tagName] = nil
			} else if field.Elem().Kind() == reflect.Struct {
				res[tagName] = structToMap(field.Interface())
			} else {
				res[tagName] = field.Elem().Interface()
			}
		case field.Kind() == reflect.Struct:
			res[tagName] = structToMap(field.Interface())
		default:
			if omitEmpty && field.IsZero() {
				continue
			}
			res[tagName] = field.Interface()
		}
	}
	return res
}

// parseJSONTag parses a JSON struct tag and returns the field name and whether omitempty is specified.
func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for i := 1; i < len(parts); i++ {
		if strings.TrimSpace(parts[i]) == "omitempty" {
			omitEmpty = true
			break
		}
	}
	return name, omitEmpty
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
