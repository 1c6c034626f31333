package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FlexibleUnmarshal unmarshals JSON with flexible type conversion.
//
// The provisioning interface encodes every scalar as a string, so string
// values are converted to the bool, integer and float fields of the target.
// Non-string values destined for string fields are formatted as strings, and a
// single object where the target expects a slice becomes a one-element slice.
// Values that cannot be converted are passed through unchanged and surface as
// decoding errors.
func FlexibleUnmarshal(data []byte, target interface{}) error {
	var rawData map[string]interface{}
	if err := json.Unmarshal(data, &rawData); err != nil {
		return err
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}
	targetElem := targetValue.Elem()
	if targetElem.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	convertedData := convertMapToStruct(rawData, targetElem.Type())

	convertedJSON, err := json.Marshal(convertedData)
	if err != nil {
		return err
	}
	return json.Unmarshal(convertedJSON, target)
}

// convertMapToStruct recursively converts map values to match struct field types
func convertMapToStruct(data map[string]interface{}, structType reflect.Type) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for key, value := range data {
		field, found := findFieldByJSONTag(structType, key)
		if !found {
			result[key] = value
			continue
		}
		result[key] = convertValue(value, field.Type)
	}
	return result
}

// convertValue converts a value to match the target type
func convertValue(value interface{}, targetType reflect.Type) interface{} {
	if value == nil {
		return nil
	}

	switch targetType.Kind() {
	case reflect.Ptr:
		return convertValue(value, targetType.Elem())

	case reflect.String:
		return convertToString(value)

	case reflect.Bool:
		if s, ok := value.(string); ok {
			if b, err := ToBool(s); err == nil {
				return b
			}
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s, ok := value.(string); ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s, ok := value.(string); ok {
			if n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		}

	case reflect.Float32, reflect.Float64:
		if s, ok := value.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}

	case reflect.Slice:
		elemType := targetType.Elem()
		switch v := value.(type) {
		case []interface{}:
			result := make([]interface{}, len(v))
			for i, item := range v {
				result[i] = convertValue(item, elemType)
			}
			return result
		case map[string]interface{}:
			// One matching element is sent as an object instead of an array.
			return []interface{}{convertValue(v, elemType)}
		}

	case reflect.Struct:
		if m, ok := value.(map[string]interface{}); ok {
			return convertMapToStruct(m, targetType)
		}
	}

	return value
}

// convertToString converts any value to a string
func convertToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// findFieldByJSONTag finds the struct field encoding/json would decode key
// into: an exact tag match first, then a case-insensitive tag or name match.
func findFieldByJSONTag(structType reflect.Type, jsonTag string) (reflect.StructField, bool) {
	var fallback *reflect.StructField
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagName, _ := parseJSONTag(field.Tag.Get("json"))
		if tagName == "-" {
			continue
		}
		if tagName == "" {
			tagName = field.Name
		}
		if tagName == jsonTag {
			return field, true
		}
		if fallback == nil && strings.EqualFold(tagName, jsonTag) {
			f := field
			fallback = &f
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return reflect.StructField{}, false
}
