package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/bndr/gotabulate"
)

// Attributes shown first when rendering a record.
var printableAttrs = []string{
	"ObjectId",
	"Alias",
	"DisplayName",
	"DisplayNameSuffix",
	"ServerName",
	"HostName",
	"Ipv4Address",
	"DtmfAccessId",
	"Description",
}

type FillFunc func(Record, any) error

var fillFunc FillFunc = func(r Record, container any) error {
	dbByte, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// FlexibleUnmarshal converts the string-typed payload into typed fields
	return FlexibleUnmarshal(dbByte, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings or request bodies.
type Params map[string]any

// Query builds the list filter "(field op value)". Operators without a value
// (isnull, isnotnull) are written without one.
func Query(field, op string, value ...string) Params {
	clause := field + " " + op
	if len(value) > 0 && value[0] != "" {
		clause += " " + value[0]
	}
	return Params{ParamQuery: "(" + clause + ")"}
}

// ToQuery serializes the Params into a URL-encoded query string.
func (pr *Params) ToQuery() string {
	return convertMapToQuery(*pr)
}

// Update merges another Params map into the original Params.
// If a key already exists and `override` is false, its value is kept.
func (pr *Params) Update(other Params, override bool) {
	for key, value := range other {
		if _, exists := (*pr)[key]; exists && !override {
			continue
		}
		(*pr)[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr *Params) Without(keys ...string) {
	for _, key := range keys {
		delete(*pr, key)
	}
}

// NewParamsFromStruct creates a Params map from any struct, respecting json tags.
func NewParamsFromStruct(obj any) Params {
	params := make(Params)
	if obj == nil {
		return params
	}
	for key, value := range structToMap(obj) {
		params[key] = value
	}
	return params
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// Record represents a single object as decoded from the server.
type Record map[string]any

// RecordSet represents a list of Record objects in server order.
type RecordSet []Record

// Fill populates the exported fields of the given struct pointer using values
// from the Record. Keys are matched against `json` tags, then field names,
// case-insensitively; string payload values are converted to the field types.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	if val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	return fillFunc(r, container)
}

// String returns the value of key as a string, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return convertToString(v)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	if len(r) == 0 {
		return "<>"
	}
	return renderRows("", recordRows(r))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	return marshalIndent(r, indent...)
}

// Fill populates a pointer to a slice of structs (or struct pointers).
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}
	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}
	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr
	targetType := elemType
	if isPtrElem {
		targetType = elemType.Elem()
	}
	if targetType.Kind() != reflect.Struct {
		return fmt.Errorf("slice element must be a struct or pointer to a struct")
	}
	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n")
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

func (rs RecordSet) PrettyJson(indent ...string) string {
	return marshalIndent(rs, indent...)
}

// Table renders any JSON-serializable object as an attr/value grid titled
// with name.
func Table(name string, obj any) string {
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	var rec Record
	if err = json.Unmarshal(raw, &rec); err != nil || len(rec) == 0 {
		return name + ": <>"
	}
	return renderRows(name, recordRows(rec))
}

func recordRows(r Record) [][]any {
	var rows [][]any
	seen := map[string]struct{}{}
	for _, key := range printableAttrs {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, convertToString(val)})
			seen[key] = struct{}{}
		}
	}
	for _, key := range sortedKeys(r) {
		if _, ok := seen[key]; ok {
			continue
		}
		val := r[key]
		if val == nil {
			continue
		}
		switch val.(type) {
		case map[string]any, []any:
			b, _ := json.Marshal(val)
			rows = append(rows, []any{key, string(b)})
		default:
			rows = append(rows, []any{key, convertToString(val)})
		}
	}
	return rows
}

func renderRows(name string, rows [][]any) string {
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"attr", "value"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	if name != "" {
		return fmt.Sprintf("%s:\n%s", name, t.Render("grid"))
	}
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

func marshalIndent(v any, indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(v, "", indent[0])
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// decodeRecords parses a response body into records.
//
// List endpoints wrap their payload as {"@total": "N", "<element>": ...} where
// the element is an array, a single object when exactly one item matched, or
// absent when nothing matched. Item endpoints return a bare object. The
// returned total is -1 when the body carries no @total.
func decodeRecords(text, element string) (RecordSet, int, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 {
		return RecordSet{}, -1, nil
	}
	switch trimmed[0] {
	case '{':
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, -1, err
		}
		rawTotal, enveloped := rec[totalKey]
		if !enveloped {
			if len(rec) == 0 {
				return RecordSet{}, -1, nil
			}
			return RecordSet{rec}, -1, nil
		}
		total, err := toInt(rawTotal)
		if err != nil {
			return nil, -1, fmt.Errorf("invalid %s value: %w", totalKey, err)
		}
		payload, err := envelopePayload(rec, element)
		if err != nil {
			return nil, -1, err
		}
		records, err := toRecordSet(payload)
		return records, int(total), err
	case '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, -1, err
		}
		records, err := toRecordSet(items)
		return records, -1, err
	default:
		return nil, -1, fmt.Errorf("unsupported JSON format: must be object or array")
	}
}

// envelopePayload picks the element value out of a list envelope. When
// element is empty the single non-@total key is used.
func envelopePayload(rec Record, element string) (any, error) {
	if element != "" {
		return rec[element], nil
	}
	var payload any
	found := 0
	for key, value := range rec {
		if key == totalKey {
			continue
		}
		payload = value
		found++
	}
	if found > 1 {
		return nil, fmt.Errorf("list envelope carries %d payload keys", found)
	}
	return payload, nil
}

func toRecordSet(payload any) (RecordSet, error) {
	switch typed := payload.(type) {
	case nil:
		return RecordSet{}, nil
	case map[string]any:
		return RecordSet{Record(typed)}, nil
	case []any:
		records := make(RecordSet, 0, len(typed))
		for i, item := range typed {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("list item %d is %T, expected an object", i, item)
			}
			records = append(records, Record(m))
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unexpected list payload %T", payload)
	}
}
