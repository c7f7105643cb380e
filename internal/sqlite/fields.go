// Field catalog accessor: the user-definable attribute schema. Definitions
// are global, ordered by sort_order, and soft-deleted by deactivation so
// stored values always survive.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/webfeathers/gemshelf/internal/slug"
	"github.com/webfeathers/gemshelf/pkg/types"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Fields provides access to field definitions.
type Fields struct {
	store *Store
}

const fieldColumns = `id, name, label, field_type, options_json,
    is_required, is_filterable, is_visible_public, sort_order, is_active`

func hydrateField(row rowScanner) (types.Field, error) {
	var f types.Field
	var options sql.NullString
	err := row.Scan(&f.ID, &f.Name, &f.Label, &f.Type, &options,
		&f.Required, &f.Filterable, &f.PublicVisible, &f.SortOrder, &f.Active)
	if err != nil {
		return types.Field{}, err
	}
	if options.Valid && options.String != "" {
		if err := json.Unmarshal([]byte(options.String), &f.Options); err != nil {
			return types.Field{}, fmt.Errorf("decoding options for field %d: %w", f.ID, err)
		}
	}
	return f, nil
}

func (ft *Fields) list(where string) ([]types.Field, error) {
	query := "SELECT " + fieldColumns + " FROM fields"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY sort_order ASC"

	rows, err := ft.store.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	defer rows.Close()

	var fields []types.Field
	for rows.Next() {
		f, err := hydrateField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// ListActive returns all active field definitions ordered by sort_order.
func (ft *Fields) ListActive() ([]types.Field, error) {
	return ft.list("is_active = 1")
}

// ListAll returns every field definition, inactive included.
func (ft *Fields) ListAll() ([]types.Field, error) {
	return ft.list("")
}

// ListFilterable returns active fields flagged for faceted filtering.
func (ft *Fields) ListFilterable() ([]types.Field, error) {
	return ft.list("is_active = 1 AND is_filterable = 1")
}

// ListPublicVisible returns active fields shown on public detail views.
func (ft *Fields) ListPublicVisible() ([]types.Field, error) {
	return ft.list("is_active = 1 AND is_visible_public = 1")
}

// Find retrieves a field definition by ID.
func (ft *Fields) Find(id int64) (types.Field, error) {
	row := ft.store.db.QueryRow(
		"SELECT "+fieldColumns+" FROM fields WHERE id = ?", id)
	f, err := hydrateField(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Field{}, types.ErrNotFound
	}
	if err != nil {
		return types.Field{}, fmt.Errorf("getting field %d: %w", id, err)
	}
	return f, nil
}

// FindByName retrieves a field definition by its machine name.
func (ft *Fields) FindByName(name string) (types.Field, error) {
	row := ft.store.db.QueryRow(
		"SELECT "+fieldColumns+" FROM fields WHERE name = ?", name)
	f, err := hydrateField(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Field{}, types.ErrNotFound
	}
	if err != nil {
		return types.Field{}, fmt.Errorf("getting field %q: %w", name, err)
	}
	return f, nil
}

// Create persists a new field definition and returns its ID.
//
// The machine name is derived from the label when absent, with _1, _2, ...
// suffixes until unique. SortOrder 0 means "append": the field is placed at
// current max + 1. Options are persisted only for select and multi_select
// types. New fields are always active.
func (ft *Fields) Create(f types.Field) (int64, error) {
	f.Label = strings.TrimSpace(f.Label)
	if f.Label == "" {
		return 0, types.ErrEmptyLabel
	}
	if f.Type == "" {
		f.Type = types.FieldTypeText
	}
	if !types.ValidFieldType(f.Type) {
		return 0, types.ErrInvalidFieldType
	}

	base := f.Name
	if base == "" {
		base = slug.MachineName(f.Label)
	}

	if f.SortOrder == 0 {
		var next int
		err := ft.store.db.QueryRow(
			"SELECT COALESCE(MAX(sort_order), 0) + 1 FROM fields").Scan(&next)
		if err != nil {
			return 0, fmt.Errorf("next sort order: %w", err)
		}
		f.SortOrder = next
	}

	options := optionsJSON(f)

	// Probe for a free machine name, with the UNIQUE constraint as the
	// backstop for concurrent creates.
	for attempt := 0; attempt <= maxUniqueAttempts; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d", base, attempt)
		}

		var taken int
		err := ft.store.db.QueryRow(
			"SELECT 1 FROM fields WHERE name = ?", name).Scan(&taken)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("probing field name: %w", err)
		}

		res, err := ft.store.db.Exec(
			`INSERT INTO fields (name, label, field_type, options_json,
                is_required, is_filterable, is_visible_public, sort_order, is_active)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			name, f.Label, f.Type, options,
			f.Required, f.Filterable, f.PublicVisible, f.SortOrder)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("creating field: %w", err)
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("field name %q: %w", base, types.ErrConflict)
}

// Update overwrites label, type, options, flags, and sort order of an
// existing field. The machine name and active state are never touched here;
// use Activate and Deactivate for the latter.
func (ft *Fields) Update(id int64, f types.Field) error {
	f.Label = strings.TrimSpace(f.Label)
	if f.Label == "" {
		return types.ErrEmptyLabel
	}
	if f.Type == "" {
		f.Type = types.FieldTypeText
	}
	if !types.ValidFieldType(f.Type) {
		return types.ErrInvalidFieldType
	}

	res, err := ft.store.db.Exec(
		`UPDATE fields SET label = ?, field_type = ?, options_json = ?,
            is_required = ?, is_filterable = ?, is_visible_public = ?, sort_order = ?
         WHERE id = ?`,
		f.Label, f.Type, optionsJSON(f),
		f.Required, f.Filterable, f.PublicVisible, f.SortOrder, id)
	if err != nil {
		return fmt.Errorf("updating field %d: %w", id, err)
	}
	return requireRows(res)
}

// Deactivate soft-deletes a field: it disappears from active listings and
// forms while the definition and all stored values persist.
func (ft *Fields) Deactivate(id int64) error {
	return ft.setActive(id, false)
}

// Activate restores a deactivated field, values intact.
func (ft *Fields) Activate(id int64) error {
	return ft.setActive(id, true)
}

func (ft *Fields) setActive(id int64, active bool) error {
	res, err := ft.store.db.Exec(
		"UPDATE fields SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("toggling field %d: %w", id, err)
	}
	return requireRows(res)
}

// Reorder replaces the catalog display order: each field is assigned the
// positional index of its ID in ids, atomically. Unknown IDs are ignored.
func (ft *Fields) Reorder(ids []int64) error {
	tx, err := ft.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reorder: %w", err)
	}
	defer tx.Rollback()

	for position, id := range ids {
		if _, err := tx.Exec(
			"UPDATE fields SET sort_order = ? WHERE id = ?", position, id); err != nil {
			return fmt.Errorf("reordering field %d: %w", id, err)
		}
	}

	return tx.Commit()
}

// DistinctValues returns the sorted set of non-empty values currently in use
// for a field across published specimens. Used to populate filter option
// lists.
func (ft *Fields) DistinctValues(fieldID int64) ([]string, error) {
	rows, err := ft.store.db.Query(
		`SELECT DISTINCT fv.value FROM field_values fv
         INNER JOIN specimens s ON s.id = fv.specimen_id AND s.is_published = 1
         WHERE fv.field_id = ? AND fv.value != ''
         ORDER BY fv.value ASC`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("distinct values for field %d: %w", fieldID, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// optionsJSON serializes the option list for storage, or NULL when the field
// type carries no options.
func optionsJSON(f types.Field) any {
	if !f.HasOptions() || len(f.Options) == 0 {
		return nil
	}
	b, err := json.Marshal(f.Options)
	if err != nil {
		return nil
	}
	return string(b)
}

// requireRows converts a zero-row UPDATE into types.ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
