// Package sqlite implements the GemShelf catalog store on SQLite via
// database/sql. All SQL is parameterized; caller-supplied values are never
// interpolated into query text.
package sqlite

// Schema DDL. field_values and photos cascade with their owning specimen;
// field definitions are global and never hard-deleted.
const (
	createFields = `CREATE TABLE IF NOT EXISTS fields (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    label TEXT NOT NULL,
    field_type TEXT NOT NULL,
    options_json TEXT,
    is_required INTEGER NOT NULL DEFAULT 0,
    is_filterable INTEGER NOT NULL DEFAULT 0,
    is_visible_public INTEGER NOT NULL DEFAULT 1,
    sort_order INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1
);`

	createSpecimens = `CREATE TABLE IF NOT EXISTS specimens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    is_published INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createFieldValues = `CREATE TABLE IF NOT EXISTS field_values (
    specimen_id INTEGER NOT NULL,
    field_id INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (specimen_id, field_id),
    FOREIGN KEY (specimen_id) REFERENCES specimens(id) ON DELETE CASCADE,
    FOREIGN KEY (field_id) REFERENCES fields(id)
);`

	createPhotos = `CREATE TABLE IF NOT EXISTS photos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    specimen_id INTEGER NOT NULL,
    filename TEXT NOT NULL,
    original_name TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    is_primary INTEGER NOT NULL DEFAULT 0,
    file_size INTEGER NOT NULL DEFAULT 0,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (specimen_id) REFERENCES specimens(id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxFieldsSort         = `CREATE INDEX IF NOT EXISTS idx_fields_sort ON fields(sort_order);`
	idxSpecimensPublished = `CREATE INDEX IF NOT EXISTS idx_specimens_published ON specimens(is_published);`
	idxFieldValuesField   = `CREATE INDEX IF NOT EXISTS idx_field_values_field ON field_values(field_id);`
	idxPhotosSpecimenSort = `CREATE INDEX IF NOT EXISTS idx_photos_specimen_sort ON photos(specimen_id, sort_order);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createFields,
	createSpecimens,
	createFieldValues,
	createPhotos,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxFieldsSort,
	idxSpecimensPublished,
	idxFieldValuesField,
	idxPhotosSpecimenSort,
}
