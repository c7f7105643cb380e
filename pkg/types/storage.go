package types

import "io"

// ImageMeta describes a stored image produced by ingestion.
type ImageMeta struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileSize     int64  `json:"file_size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// ImageIngestor turns a raw uploaded file into stored-image metadata.
// Implementations must reject files exceeding the configured size limit or
// outside the allowed image types, independent of the catalog core.
type ImageIngestor interface {
	Ingest(specimenID int64, r io.Reader, originalName string) (ImageMeta, error)
}

// FileStore removes the backing artifacts of a stored image. DeleteFiles is
// idempotent: missing files are not an error.
type FileStore interface {
	DeleteFiles(filename string) error
}
