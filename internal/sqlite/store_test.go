package sqlite

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// fakeFiles records file deletions and optionally fails them, standing in
// for the disk storage collaborator.
type fakeFiles struct {
	deleted []string
	err     error
}

func (f *fakeFiles) DeleteFiles(filename string) error {
	f.deleted = append(f.deleted, filename)
	return f.err
}

// newTestStore opens a store on a temporary database, ready for catalog
// operations. The returned fakeFiles records cleanup calls.
func newTestStore(t *testing.T) (*Store, *fakeFiles) {
	t.Helper()
	files := &fakeFiles{}
	s, err := Open(types.Config{DataDir: t.TempDir()}, files, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, files
}

// mustCreateField creates an active field and returns its ID.
func mustCreateField(t *testing.T, s *Store, f types.Field) int64 {
	t.Helper()
	id, err := s.Fields().Create(f)
	require.NoError(t, err)
	return id
}

// mustCreateSpecimen creates a specimen and returns its ID.
func mustCreateSpecimen(t *testing.T, s *Store, sp types.Specimen) int64 {
	t.Helper()
	id, err := s.Specimens().Create(sp)
	require.NoError(t, err)
	return id
}

// testMeta fabricates ingestion metadata for photo tests.
func testMeta(filename string) types.ImageMeta {
	return types.ImageMeta{
		Filename:     filename,
		OriginalName: "upload.jpg",
		FileSize:     1024,
		Width:        800,
		Height:       600,
	}
}

func TestOpenValidatesConfig(t *testing.T) {
	_, err := Open(types.Config{}, &fakeFiles{}, zerolog.Nop())
	require.ErrorIs(t, err, types.ErrDataDirEmpty)
}

func TestOpenReopensExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{DataDir: dir}

	s, err := Open(cfg, &fakeFiles{}, zerolog.Nop())
	require.NoError(t, err)
	id := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	require.NoError(t, s.Close())

	s, err = Open(cfg, &fakeFiles{}, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Specimens().FindByID(id)
	require.NoError(t, err)
	require.Equal(t, "Quartz", got.Name)
}

func TestCloseIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
