package types

import (
	"errors"
	"path/filepath"
)

// Defaults applied when a Config field is left zero.
const (
	DefaultPerPage     = 24
	DefaultMaxFileSize = 10 << 20 // 10 MiB
)

// Config validation errors.
var (
	ErrDataDirEmpty       = errors.New("data directory must not be empty")
	ErrPerPageInvalid     = errors.New("per_page must be positive")
	ErrMaxFileSizeInvalid = errors.New("max_file_size must be positive")
)

// Config holds store and upload parameters.
type Config struct {
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	PerPage     int    `json:"per_page" yaml:"per_page"`
	MaxFileSize int64  `json:"max_file_size" yaml:"max_file_size"`
}

// WithDefaults returns a copy of the Config with zero fields replaced by
// their defaults.
func (c Config) WithDefaults() Config {
	if c.PerPage == 0 {
		c.PerPage = DefaultPerPage
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.PerPage <= 0 {
		return ErrPerPageInvalid
	}
	if c.MaxFileSize <= 0 {
		return ErrMaxFileSizeInvalid
	}
	return nil
}

// DatabasePath returns the SQLite database file location under DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "gemshelf.db")
}

// OriginalsDir returns the directory holding full-size uploaded images.
func (c Config) OriginalsDir() string {
	return filepath.Join(c.DataDir, "uploads", "originals")
}

// ThumbsDir returns the directory holding thumbnail artifacts. Thumbnails
// are produced out of band; the catalog only stores and deletes them.
func (c Config) ThumbsDir() string {
	return filepath.Join(c.DataDir, "uploads", "thumbs")
}
