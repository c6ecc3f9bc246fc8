package types

import (
	"strings"

	"github.com/samber/lo"
)

// FieldName is one of the closed set of connection form fields.
// The string values are visible on the wire and in storage.
type FieldName string

const (
	FieldURL      FieldName = "url"
	FieldDBName   FieldName = "db_name"
	FieldUsername FieldName = "username"
	FieldPassword FieldName = "password"
	FieldSchema   FieldName = "schema"
)

var fieldNames = []FieldName{FieldURL, FieldDBName, FieldUsername, FieldPassword, FieldSchema}

// FieldNames returns every recognised field name in declaration order.
func FieldNames() []FieldName {
	out := make([]FieldName, len(fieldNames))
	copy(out, fieldNames)
	return out
}

// Required reports whether the form marks the field as required.
func (f FieldName) Required() bool {
	return f == FieldURL || f == FieldDBName || f == FieldSchema
}

// Valid reports whether f belongs to the enumeration.
func (f FieldName) Valid() bool {
	return lo.Contains(fieldNames, f)
}

// FieldSet maps recognised field names to their values. Absent optional
// fields are omitted rather than stored as empty strings.
type FieldSet map[FieldName]string

// Get returns the value of the field and whether it is present.
func (s FieldSet) Get(name FieldName) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// Value returns the value of the field or an empty string.
func (s FieldSet) Value(name FieldName) string {
	return s[name]
}

// ConnectionRecord is the persisted bundle of connection fields and the
// identifier generated for the connect attempt that produced it.
type ConnectionRecord struct {
	Fields       FieldSet `json:"data"`
	ConnectionID string   `json:"connId"`
}

// ExtractFields reads only the recognised fields from an open-ended form.
// Values are trimmed; absent and empty values are left out. Unknown keys
// are never copied.
func ExtractFields(form map[string][]string) FieldSet {
	fields := FieldSet{}
	for _, name := range fieldNames {
		values, ok := form[string(name)]
		if !ok || len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[0])
		if value == "" {
			continue
		}
		fields[name] = value
	}
	return fields
}
