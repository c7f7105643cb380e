// Photo collection accessor. All mutations that touch the primary flag run
// in one transaction so no reader observes a specimen with zero or two
// primaries while photos exist.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// Photos provides access to per-specimen photo collections.
type Photos struct {
	store *Store
}

const photoColumns = `id, specimen_id, filename, original_name, caption,
    sort_order, is_primary, file_size, width, height`

func hydratePhoto(row rowScanner) (types.Photo, error) {
	var p types.Photo
	err := row.Scan(&p.ID, &p.SpecimenID, &p.Filename, &p.OriginalName,
		&p.Caption, &p.SortOrder, &p.Primary, &p.FileSize, &p.Width, &p.Height)
	return p, err
}

// Find retrieves a photo by ID.
func (pt *Photos) Find(id int64) (types.Photo, error) {
	row := pt.store.db.QueryRow(
		"SELECT "+photoColumns+" FROM photos WHERE id = ?", id)
	p, err := hydratePhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Photo{}, types.ErrNotFound
	}
	if err != nil {
		return types.Photo{}, fmt.Errorf("getting photo %d: %w", id, err)
	}
	return p, nil
}

// forSpecimen returns a specimen's photos in display order.
func (pt *Photos) forSpecimen(specimenID int64) ([]types.Photo, error) {
	rows, err := pt.store.db.Query(
		"SELECT "+photoColumns+" FROM photos WHERE specimen_id = ? ORDER BY sort_order ASC, id ASC",
		specimenID)
	if err != nil {
		return nil, fmt.Errorf("loading photos for specimen %d: %w", specimenID, err)
	}
	defer rows.Close()

	var photos []types.Photo
	for rows.Next() {
		p, err := hydratePhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// Add appends an ingested image to a specimen's collection and returns the
// photo ID. The new photo takes the next sort position; the first photo of a
// specimen becomes primary.
func (pt *Photos) Add(specimenID int64, meta types.ImageMeta) (int64, error) {
	tx, err := pt.store.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning photo add: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow("SELECT 1 FROM specimens WHERE id = ?", specimenID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, types.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("checking specimen %d: %w", specimenID, err)
	}

	var nextSort, count int
	err = tx.QueryRow(
		"SELECT COALESCE(MAX(sort_order), -1) + 1, COUNT(*) FROM photos WHERE specimen_id = ?",
		specimenID).Scan(&nextSort, &count)
	if err != nil {
		return 0, fmt.Errorf("next photo sort order: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO photos (specimen_id, filename, original_name, caption,
            sort_order, is_primary, file_size, width, height)
         VALUES (?, ?, ?, '', ?, ?, ?, ?, ?)`,
		specimenID, meta.Filename, meta.OriginalName,
		nextSort, count == 0, meta.FileSize, meta.Width, meta.Height)
	if err != nil {
		return 0, fmt.Errorf("adding photo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing photo add: %w", err)
	}
	return id, nil
}

// SetPrimary makes photoID the single primary photo of specimenID,
// atomically clearing the flag on every other photo of the specimen.
func (pt *Photos) SetPrimary(photoID, specimenID int64) error {
	tx, err := pt.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning set primary: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow(
		"SELECT 1 FROM photos WHERE id = ? AND specimen_id = ?", photoID, specimenID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking photo %d: %w", photoID, err)
	}

	if _, err := tx.Exec(
		"UPDATE photos SET is_primary = 0 WHERE specimen_id = ?", specimenID); err != nil {
		return fmt.Errorf("clearing primary flags: %w", err)
	}
	if _, err := tx.Exec(
		"UPDATE photos SET is_primary = 1 WHERE id = ?", photoID); err != nil {
		return fmt.Errorf("setting primary flag: %w", err)
	}

	return tx.Commit()
}

// UpdateCaption replaces a photo's caption.
func (pt *Photos) UpdateCaption(id int64, caption string) error {
	res, err := pt.store.db.Exec(
		"UPDATE photos SET caption = ? WHERE id = ?", caption, id)
	if err != nil {
		return fmt.Errorf("updating caption for photo %d: %w", id, err)
	}
	return requireRows(res)
}

// Reorder replaces the display order of one specimen's photos: each photo is
// assigned the positional index of its ID in ids, atomically. The caller
// supplies IDs belonging to a single specimen.
func (pt *Photos) Reorder(ids []int64) error {
	tx, err := pt.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning photo reorder: %w", err)
	}
	defer tx.Rollback()

	for position, id := range ids {
		if _, err := tx.Exec(
			"UPDATE photos SET sort_order = ? WHERE id = ?", position, id); err != nil {
			return fmt.Errorf("reordering photo %d: %w", id, err)
		}
	}

	return tx.Commit()
}

// Delete removes a photo row and, when the primary was removed and other
// photos remain, promotes the one with the lowest sort order in the same
// transaction. Backing files are then removed through the storage
// collaborator best-effort: a failure is logged, not surfaced, because the
// row deletion is already the source of truth.
func (pt *Photos) Delete(id int64) error {
	tx, err := pt.store.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning photo delete: %w", err)
	}
	defer tx.Rollback()

	// The primary flag is read inside the transaction: the promote decision
	// must see the same snapshot the delete acts on, or a concurrent
	// SetPrimary between read and delete could leave the specimen with no
	// primary.
	var specimenID int64
	var primary bool
	var filename string
	err = tx.QueryRow(
		"SELECT specimen_id, is_primary, filename FROM photos WHERE id = ?", id).
		Scan(&specimenID, &primary, &filename)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting photo %d: %w", id, err)
	}

	if _, err := tx.Exec("DELETE FROM photos WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting photo %d: %w", id, err)
	}

	if primary {
		var nextID int64
		err := tx.QueryRow(
			`SELECT id FROM photos WHERE specimen_id = ?
             ORDER BY sort_order ASC, id ASC LIMIT 1`, specimenID).Scan(&nextID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Last photo removed; the specimen simply has none.
		case err != nil:
			return fmt.Errorf("finding next primary: %w", err)
		default:
			if _, err := tx.Exec(
				"UPDATE photos SET is_primary = 1 WHERE id = ?", nextID); err != nil {
				return fmt.Errorf("promoting photo %d: %w", nextID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing photo delete: %w", err)
	}

	if err := pt.store.files.DeleteFiles(filename); err != nil {
		pt.store.log.Warn().Err(err).
			Str("filename", filename).
			Int64("photo_id", id).
			Msg("photo file cleanup failed")
	}
	return nil
}
