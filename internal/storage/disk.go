// Package storage implements the image ingestion and file cleanup
// collaborators on local disk. Ingestion validates size and content type by
// sniffing the bytes, probes pixel dimensions, and stores the original under
// an opaque generated filename. Thumbnail rendering happens out of band;
// this package only accounts for thumb artifacts on delete.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.ImageIngestor = (*Disk)(nil)
	_ types.FileStore     = (*Disk)(nil)
)

// imageExtensions maps accepted sniffed content types to stored extensions.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Disk stores image files under a data directory.
type Disk struct {
	originalsDir string
	thumbsDir    string
	maxFileSize  int64
	log          zerolog.Logger
}

// NewDisk creates the upload directories and returns a disk store.
func NewDisk(cfg types.Config, log zerolog.Logger) (*Disk, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, dir := range []string{cfg.OriginalsDir(), cfg.ThumbsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Disk{
		originalsDir: cfg.OriginalsDir(),
		thumbsDir:    cfg.ThumbsDir(),
		maxFileSize:  cfg.MaxFileSize,
		log:          log,
	}, nil
}

// Ingest validates and stores one uploaded image, returning its metadata.
// Files over the size limit return ErrFileTooLarge; content outside the
// accepted image types returns ErrUnsupportedImage.
func (d *Disk) Ingest(specimenID int64, r io.Reader, originalName string) (types.ImageMeta, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.maxFileSize+1))
	if err != nil {
		return types.ImageMeta{}, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > d.maxFileSize {
		return types.ImageMeta{}, types.ErrFileTooLarge
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return types.ImageMeta{}, types.ErrUnsupportedImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return types.ImageMeta{}, fmt.Errorf("%w: %s", types.ErrUnsupportedImage, err)
	}

	filename := fmt.Sprintf("%d_%s.%s", specimenID, newFileID(), ext)
	path := filepath.Join(d.originalsDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return types.ImageMeta{}, fmt.Errorf("storing upload: %w", err)
	}

	d.log.Debug().Str("filename", filename).Int("bytes", len(data)).Msg("image stored")

	return types.ImageMeta{
		Filename:     filename,
		OriginalName: originalName,
		FileSize:     int64(len(data)),
		Width:        cfg.Width,
		Height:       cfg.Height,
	}, nil
}

// DeleteFiles removes the original and thumbnail artifacts for a stored
// filename. Idempotent: missing files are not an error.
func (d *Disk) DeleteFiles(filename string) error {
	var errs []error
	for _, dir := range []string{d.originalsDir, d.thumbsDir} {
		err := os.Remove(filepath.Join(dir, filename))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newFileID generates an opaque identifier for stored filenames.
func newFileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
