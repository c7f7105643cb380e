package types

import "encoding/json"

// Field types. A field's type decides how its stored text value is
// interpreted at read time; the value slot itself is always text.
const (
	FieldTypeText        = "text"
	FieldTypeTextarea    = "textarea"
	FieldTypeNumber      = "number"
	FieldTypeSelect      = "select"
	FieldTypeMultiSelect = "multi_select"
	FieldTypeDate        = "date"
	FieldTypeURL         = "url"
	FieldTypeColor       = "color"
)

// validFieldTypes is the set of recognized field type values.
var validFieldTypes = map[string]bool{
	FieldTypeText:        true,
	FieldTypeTextarea:    true,
	FieldTypeNumber:      true,
	FieldTypeSelect:      true,
	FieldTypeMultiSelect: true,
	FieldTypeDate:        true,
	FieldTypeURL:         true,
	FieldTypeColor:       true,
}

// ValidFieldType reports whether t is a recognized field type.
func ValidFieldType(t string) bool {
	return validFieldTypes[t]
}

// Field is a user-configured definition of one specimen attribute.
// Definitions are global and soft-deletable: deactivating a field hides it
// from active listings but preserves the definition and every stored value.
type Field struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`  // machine key, unique; derived from Label when absent
	Label         string   `json:"label"` // display text (required)
	Type          string   `json:"type"`  // one of the FieldType constants
	Options       []string `json:"options,omitempty"`
	Required      bool     `json:"required"`
	Filterable    bool     `json:"filterable"`
	PublicVisible bool     `json:"public_visible"`
	SortOrder     int      `json:"sort_order"`
	Active        bool     `json:"active"`
}

// HasOptions reports whether the field type carries an option list.
// Options are only meaningful for select and multi_select fields.
func (f Field) HasOptions() bool {
	return f.Type == FieldTypeSelect || f.Type == FieldTypeMultiSelect
}

// EncodeMultiValue serializes a multi_select selection into the single text
// value slot. The store treats the result as opaque text.
func EncodeMultiValue(values []string) string {
	b, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeMultiValue parses a stored multi_select value back into the ordered
// list of selected option strings. Malformed or empty input yields nil.
func DecodeMultiValue(value string) []string {
	if value == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil
	}
	return values
}
