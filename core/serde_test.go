package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewParamsFromStruct tests the NewParamsFromStruct function
func TestNewParamsFromStruct(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected Params
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: Params{},
		},
		{
			name: "simple struct",
			input: struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			}{Name: "Test", Age: 20},
			expected: Params{"name": "Test", "age": 20},
		},
		{
			name: "pointer to struct",
			input: &struct {
				Name string `json:"name"`
			}{Name: "Test"},
			expected: Params{"name": "Test"},
		},
		{
			name: "nil pointer",
			input: (*struct {
				Name string `json:"name"`
			})(nil),
			expected: Params{},
		},
		{
			name: "struct with omitempty and zero values",
			input: struct {
				Name  string `json:"name,omitempty"`
				Age   int    `json:"age,omitempty"`
				Empty string `json:"empty,omitempty"`
			}{Name: "Jane"},
			expected: Params{"name": "Jane"},
		},
		{
			name: "struct with pointer fields",
			input: struct {
				Name *string `json:"name,omitempty"`
				Age  *int    `json:"age,omitempty"`
			}{Name: stringPtr("Alice"), Age: intPtr(25)},
			expected: Params{"name": "Alice", "age": 25},
		},
		{
			name: "struct with nested struct",
			input: struct {
				Name    string `json:"name"`
				Address struct {
					City string `json:"city"`
				} `json:"address"`
			}{
				Name: "Bob",
				Address: struct {
					City string `json:"city"`
				}{City: "NYC"},
			},
			expected: Params{"name": "Bob", "address": map[string]interface{}{"city": "NYC"}},
		},
		{
			name: "struct with json dash (ignored field)",
			input: struct {
				Public  string  `json:"public"`
				Private string  `json:"-"`
				Binding Binding `json:"-"`
			}{Public: "visible", Private: "hidden"},
			expected: Params{"public": "visible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewParamsFromStruct(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("NewParamsFromStruct() got = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name  string
		field string
		op    string
		value []string
		want  string
	}{
		{"is", "alias", OpIs, []string{"jdoe"}, "(alias is jdoe)"},
		{"startswith", "alias", OpStartsWith, []string{"j"}, "(alias startswith j)"},
		{"isnull", "smtpaddress", OpIsNull, nil, "(smtpaddress isnull)"},
		{"empty value", "smtpaddress", OpIsNotNull, []string{""}, "(smtpaddress isnotnull)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(tt.field, tt.op, tt.value...)
			if got[ParamQuery] != tt.want {
				t.Errorf("Query() = %v, want %q", got[ParamQuery], tt.want)
			}
		})
	}
}

func TestParams_ToQuery(t *testing.T) {
	params := Query("alias", OpIs, "j doe")
	params[ParamRowsPerPage] = 10
	assert.Equal(t, "query=%28alias+is+j+doe%29&rowsPerPage=10", params.ToQuery())
}

func TestParams_UpdateWithout(t *testing.T) {
	params := Params{"a": 1, "b": 2}
	params.Update(Params{"b": 3, "c": 4}, false)
	assert.Equal(t, Params{"a": 1, "b": 2, "c": 4}, params)

	params.Update(Params{"b": 3}, true)
	assert.Equal(t, 3, params["b"])

	params.Without("a", "missing")
	assert.Equal(t, Params{"b": 3, "c": 4}, params)
}

// TestRecord_Fill tests the Fill method on Record type
func TestRecord_Fill(t *testing.T) {
	type target struct {
		Name    string `json:"name"`
		Age     int    `json:"age"`
		Enabled bool   `json:"enabled"`
	}
	tests := []struct {
		name    string
		record  Record
		want    target
		wantErr bool
	}{
		{"numbers", Record{"name": "John", "age": float64(30)}, target{Name: "John", Age: 30}, false},
		{"strings", Record{"name": "John", "age": "30", "enabled": "true"}, target{Name: "John", Age: 30, Enabled: true}, false},
		{"missing fields", Record{"name": "Jane"}, target{Name: "Jane"}, false},
		{"case-insensitive keys", Record{"Name": "Ann", "AGE": "4"}, target{Name: "Ann", Age: 4}, false},
		{"bad int", Record{"age": "old"}, target{}, true},
		{"bad bool", Record{"enabled": "maybe"}, target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got target
			err := tt.record.Fill(&got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fill() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Fill() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecord_FillRejectsNonStruct(t *testing.T) {
	var s string
	assert.Error(t, Record{"a": "b"}.Fill(&s))
	assert.Error(t, Record{"a": "b"}.Fill(nil))
	assert.Error(t, Record{"a": "b"}.Fill(struct{}{}))
}

func TestRecordSet_Fill(t *testing.T) {
	rs := RecordSet{{"ObjectId": "a", "Size": "1"}, {"ObjectId": "b", "Size": "2"}}

	var values []widget
	require.NoError(t, rs.Fill(&values))
	require.Len(t, values, 2)
	assert.Equal(t, 2, values[1].Size)

	var pointers []*widget
	require.NoError(t, rs.Fill(&pointers))
	assert.Equal(t, "a", pointers[0].ObjectId)

	var wrong []string
	assert.Error(t, rs.Fill(&wrong))
}

func TestRecord_String(t *testing.T) {
	rec := Record{"s": "x", "n": float64(12), "b": true, "nil": nil}
	assert.Equal(t, "x", rec.String("s"))
	assert.Equal(t, "12", rec.String("n"))
	assert.Equal(t, "true", rec.String("b"))
	assert.Equal(t, "", rec.String("nil"))
	assert.Equal(t, "", rec.String("absent"))
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		element string
		ids     []string
		total   int
		wantErr bool
	}{
		{"empty body", "  ", "User", []string{}, -1, false},
		{"bare object", `{"ObjectId":"a"}`, "User", []string{"a"}, -1, false},
		{"empty object", `{}`, "User", []string{}, -1, false},
		{"envelope array", `{"@total":"2","User":[{"ObjectId":"a"},{"ObjectId":"b"}]}`, "User", []string{"a", "b"}, 2, false},
		{"envelope single", `{"@total":"1","User":{"ObjectId":"a"}}`, "User", []string{"a"}, 1, false},
		{"envelope absent element", `{"@total":"0"}`, "User", []string{}, 0, false},
		{"envelope numeric total", `{"@total":3,"User":[]}`, "User", []string{}, 3, false},
		{"envelope inferred element", `{"@total":"1","Whatever":{"ObjectId":"a"}}`, "", []string{"a"}, 1, false},
		{"bare array", `[{"ObjectId":"a"},{"ObjectId":"b"}]`, "", []string{"a", "b"}, -1, false},
		{"bad total", `{"@total":"many","User":[]}`, "User", nil, -1, true},
		{"scalar payload", `{"@total":"1","User":"a"}`, "User", nil, -1, true},
		{"several payload keys", `{"@total":"1","A":{},"B":{}}`, "", nil, -1, true},
		{"scalar body", `"text"`, "", nil, -1, true},
		{"invalid json", `{"ObjectId":`, "", nil, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, total, err := decodeRecords(tt.text, tt.element)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got := make([]string, 0, len(records))
			for _, rec := range records {
				got = append(got, rec.String("ObjectId"))
			}
			assert.Equal(t, tt.ids, got)
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestTable(t *testing.T) {
	out := Table("Widget", widget{ObjectId: "w-1", DisplayName: "First", Size: 2, Color: "red"})
	require.True(t, strings.HasPrefix(out, "Widget:\n"))
	assert.Contains(t, out, "attr")
	assert.Contains(t, out, "w-1")
	assert.Contains(t, out, "First")
	assert.NotContains(t, out, "Binding")
	// Identity attributes come first.
	assert.Less(t, strings.Index(out, "ObjectId"), strings.Index(out, "Color"))

	assert.Equal(t, "Empty: <>", Table("Empty", struct{}{}))
}

func TestRecordSet_PrettyTable(t *testing.T) {
	assert.Equal(t, "[]", RecordSet{}.PrettyTable())
	out := RecordSet{{"ObjectId": "a"}, {"ObjectId": "b"}}.PrettyTable()
	assert.True(t, strings.HasPrefix(out, "[\n"))
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
	assert.Equal(t, "<>", Record{}.PrettyTable())
}

// Helper functions
func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
