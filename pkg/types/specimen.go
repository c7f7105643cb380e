package types

import "time"

// Specimen is a cataloged physical specimen. Core fields live on the
// specimens row; attribute values and photos are owned by the specimen and
// cascade-deleted with it.
//
// Fields and Photos are populated only on full projections (FindByID,
// FindBySlug). Listing queries return summary rows where both are nil and
// CoverPhoto carries the primary photo filename, if any.
type Specimen struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Published   bool      `json:"published"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Fields     []FieldValue `json:"fields,omitempty"`
	Photos     []Photo      `json:"photos,omitempty"`
	CoverPhoto string       `json:"cover_photo,omitempty"`
}

// FieldValue joins one active field definition with this specimen's stored
// value. Values are sparse: Set distinguishes "no value row" from an empty
// string written on purpose.
type FieldValue struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
	Set   bool   `json:"set"`
}

// MultiValues interprets the stored value as a multi_select selection.
// Returns nil for other field types or unset values.
func (fv FieldValue) MultiValues() []string {
	if fv.Field.Type != FieldTypeMultiSelect || !fv.Set {
		return nil
	}
	return DecodeMultiValue(fv.Value)
}

// Page is one window of a paginated specimen listing. Total counts the full
// match set independent of the window.
type Page struct {
	Items []Specimen `json:"items"`
	Total int        `json:"total"`
}
