// Specimen repository accessor: core rows plus hydration of field values and
// photo collections. Slug uniqueness is resolved by numeric suffix probing
// with the UNIQUE constraint as the backstop against concurrent writers.
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

// Specimens provides access to the specimen catalog.
type Specimens struct {
	store *Store
}

// specimenColumns selects core specimen fields aliased to s, plus the
// primary photo filename from the p join used in listing queries.
const specimenColumns = `s.id, s.name, s.slug, s.description, s.is_published,
    s.sort_order, s.created_at, s.updated_at, p.filename`

const primaryPhotoJoin = `LEFT JOIN photos p ON p.specimen_id = s.id AND p.is_primary = 1`

func hydrateSpecimen(row rowScanner) (types.Specimen, error) {
	var s types.Specimen
	var created, updated string
	var cover sql.NullString
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.Published,
		&s.SortOrder, &created, &updated, &cover)
	if err != nil {
		return types.Specimen{}, err
	}
	s.CreatedAt = parseTime(created)
	s.UpdatedAt = parseTime(updated)
	s.CoverPhoto = cover.String
	return s, nil
}

// Create persists a new specimen and returns its ID. The slug is derived
// from the name with -1, -2, ... suffixes until unique. Specimens start
// unpublished unless Published is set.
func (sp *Specimens) Create(s types.Specimen) (int64, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return 0, types.ErrEmptyName
	}

	base := slug.Make(s.Name)
	now := nowUTC().Format(timeFormat)

	for attempt := 0; attempt <= maxUniqueAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		if taken, err := sp.slugTaken(candidate, 0); err != nil {
			return 0, err
		} else if taken {
			continue
		}

		res, err := sp.store.db.Exec(
			`INSERT INTO specimens (name, slug, description, is_published, sort_order, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.Name, candidate, s.Description, s.Published, s.SortOrder, now, now)
		if isUniqueViolation(err) {
			// Lost a check-then-insert race; try the next suffix.
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("creating specimen: %w", err)
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("slug %q: %w", base, types.ErrConflict)
}

// Update overwrites a specimen's core fields. The slug is regenerated from
// the possibly changed name, excluding the specimen's own row from the
// uniqueness probe, and updated_at is refreshed.
func (sp *Specimens) Update(id int64, s types.Specimen) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return types.ErrEmptyName
	}

	base := slug.Make(s.Name)
	now := nowUTC().Format(timeFormat)

	for attempt := 0; attempt <= maxUniqueAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		if taken, err := sp.slugTaken(candidate, id); err != nil {
			return err
		} else if taken {
			continue
		}

		res, err := sp.store.db.Exec(
			`UPDATE specimens SET name = ?, slug = ?, description = ?,
                is_published = ?, sort_order = ?, updated_at = ?
             WHERE id = ?`,
			s.Name, candidate, s.Description, s.Published, s.SortOrder, now, id)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("updating specimen %d: %w", id, err)
		}
		return requireRows(res)
	}

	return fmt.Errorf("slug %q: %w", base, types.ErrConflict)
}

// slugTaken reports whether a slug is already used by a specimen other than
// excludeID (0 means no exclusion).
func (sp *Specimens) slugTaken(candidate string, excludeID int64) (bool, error) {
	var one int
	err := sp.store.db.QueryRow(
		"SELECT 1 FROM specimens WHERE slug = ? AND id != ?", candidate, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing slug: %w", err)
	}
	return true, nil
}

// FindByID returns the full projection of a specimen: core fields, the
// active field definitions joined with this specimen's values, and its
// ordered photos.
func (sp *Specimens) FindByID(id int64) (*types.Specimen, error) {
	return sp.find("s.id = ?", id)
}

// FindBySlug returns the full projection of the specimen with the given
// slug. With publishedOnly set, unpublished specimens are reported as
// not found.
func (sp *Specimens) FindBySlug(slugText string, publishedOnly bool) (*types.Specimen, error) {
	if publishedOnly {
		return sp.find("s.slug = ? AND s.is_published = 1", slugText)
	}
	return sp.find("s.slug = ?", slugText)
}

func (sp *Specimens) find(where string, arg any) (*types.Specimen, error) {
	row := sp.store.db.QueryRow(
		"SELECT "+specimenColumns+" FROM specimens s "+primaryPhotoJoin+" WHERE "+where, arg)
	s, err := hydrateSpecimen(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting specimen: %w", err)
	}

	if s.Fields, err = sp.fieldValues(s.ID); err != nil {
		return nil, err
	}
	if s.Photos, err = sp.store.photos.forSpecimen(s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// fieldValues joins every active field definition with this specimen's
// stored value, in catalog order. Unset fields appear with Set = false.
func (sp *Specimens) fieldValues(specimenID int64) ([]types.FieldValue, error) {
	rows, err := sp.store.db.Query(
		`SELECT `+fieldColumns+`, fv.value
         FROM fields
         LEFT JOIN field_values fv ON fv.field_id = fields.id AND fv.specimen_id = ?
         WHERE is_active = 1
         ORDER BY sort_order ASC`, specimenID)
	if err != nil {
		return nil, fmt.Errorf("loading field values for specimen %d: %w", specimenID, err)
	}
	defer rows.Close()

	var values []types.FieldValue
	for rows.Next() {
		var fv types.FieldValue
		var f types.Field
		var options, value sql.NullString
		err := rows.Scan(&f.ID, &f.Name, &f.Label, &f.Type, &options,
			&f.Required, &f.Filterable, &f.PublicVisible, &f.SortOrder, &f.Active,
			&value)
		if err != nil {
			return nil, err
		}
		if options.Valid && options.String != "" {
			if err := decodeOptions(options.String, &f); err != nil {
				return nil, err
			}
		}
		fv.Field = f
		fv.Value = value.String
		fv.Set = value.Valid
		values = append(values, fv)
	}
	return values, rows.Err()
}

// SaveFieldValues upserts one value per field ID in a single transaction.
// Multi-select values must be pre-serialized by the caller; the repository
// treats every value as opaque text.
func (sp *Specimens) SaveFieldValues(id int64, values map[int64]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := sp.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning value save: %w", err)
	}
	defer tx.Rollback()

	for fieldID, value := range values {
		_, err := tx.Exec(
			`INSERT INTO field_values (specimen_id, field_id, value) VALUES (?, ?, ?)
             ON CONFLICT(specimen_id, field_id) DO UPDATE SET value = excluded.value`,
			id, fieldID, value)
		if err != nil {
			return fmt.Errorf("saving value for field %d: %w", fieldID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a specimen. Backing photo files are deleted first through
// the storage collaborator, best-effort: failures are logged and do not
// block row removal, since the rows are the source of truth. Field value
// and photo rows go with the specimen via the schema cascade.
func (sp *Specimens) Delete(id int64) error {
	photos, err := sp.store.photos.forSpecimen(id)
	if err != nil {
		return err
	}

	for i := range photos {
		if err := sp.store.files.DeleteFiles(photos[i].Filename); err != nil {
			sp.store.log.Warn().Err(err).
				Str("filename", photos[i].Filename).
				Int64("specimen_id", id).
				Msg("photo file cleanup failed during specimen delete")
		}
	}

	res, err := sp.store.db.Exec("DELETE FROM specimens WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting specimen %d: %w", id, err)
	}
	return requireRows(res)
}

// Paginate returns one window of the specimen listing ordered by sort_order
// then name, with the total over the whole set. page is 1-based and clamped.
func (sp *Specimens) Paginate(page, perPage int, publishedOnly bool) (types.Page, error) {
	q := newSpecimenQuery()
	if publishedOnly {
		q.where("s.is_published = 1")
	}
	q.orderBy = "s.sort_order ASC, s.name ASC"
	return sp.runPage(q, page, perPage)
}

// Count returns the number of specimens, optionally published only.
func (sp *Specimens) Count(publishedOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM specimens"
	if publishedOnly {
		query += " WHERE is_published = 1"
	}
	var total int
	if err := sp.store.db.QueryRow(query).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting specimens: %w", err)
	}
	return total, nil
}

// decodeOptions fills f.Options from the stored JSON option list.
func decodeOptions(optionsJSON string, f *types.Field) error {
	if err := json.Unmarshal([]byte(optionsJSON), &f.Options); err != nil {
		return fmt.Errorf("decoding options for field %d: %w", f.ID, err)
	}
	return nil
}
