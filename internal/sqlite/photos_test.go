package sqlite

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// addPhotos appends n photos to a specimen and returns their IDs in order.
func addPhotos(t *testing.T, s *Store, specimenID int64, filenames ...string) []int64 {
	t.Helper()
	ids := make([]int64, len(filenames))
	for i, name := range filenames {
		id, err := s.Photos().Add(specimenID, testMeta(name))
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestPhotoAdd(t *testing.T) {
	s, _ := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})

	ids := addPhotos(t, s, specimenID, "a.jpg", "b.jpg")

	first, err := s.Photos().Find(ids[0])
	require.NoError(t, err)
	second, err := s.Photos().Find(ids[1])
	require.NoError(t, err)

	// The first photo of a specimen becomes primary; later ones append.
	assert.True(t, first.Primary)
	assert.Equal(t, 0, first.SortOrder)
	assert.False(t, second.Primary)
	assert.Equal(t, 1, second.SortOrder)
	assert.Equal(t, "a.jpg", first.Filename)
	assert.Equal(t, int64(1024), first.FileSize)
	assert.Equal(t, 800, first.Width)
}

func TestPhotoAddMissingSpecimen(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Photos().Add(42, testMeta("a.jpg"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPhotoSetPrimary(t *testing.T) {
	s, _ := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg", "b.jpg", "c.jpg")

	require.NoError(t, s.Photos().SetPrimary(ids[2], specimenID))

	photos, err := s.Photos().forSpecimen(specimenID)
	require.NoError(t, err)
	var primaries []int64
	for _, p := range photos {
		if p.Primary {
			primaries = append(primaries, p.ID)
		}
	}
	assert.Equal(t, []int64{ids[2]}, primaries)
}

func TestPhotoSetPrimaryWrongSpecimen(t *testing.T) {
	s, _ := newTestStore(t)
	first := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	second := mustCreateSpecimen(t, s, types.Specimen{Name: "Beryl"})
	ids := addPhotos(t, s, first, "a.jpg")

	err := s.Photos().SetPrimary(ids[0], second)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The original primary flag is untouched.
	p, err := s.Photos().Find(ids[0])
	require.NoError(t, err)
	assert.True(t, p.Primary)
}

func TestPhotoUpdateCaption(t *testing.T) {
	s, _ := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg")

	require.NoError(t, s.Photos().UpdateCaption(ids[0], "front face"))
	p, err := s.Photos().Find(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "front face", p.Caption)

	assert.ErrorIs(t, s.Photos().UpdateCaption(999, "x"), types.ErrNotFound)
}

func TestPhotoReorder(t *testing.T) {
	s, _ := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg", "b.jpg", "c.jpg")

	require.NoError(t, s.Photos().Reorder([]int64{ids[2], ids[0], ids[1]}))

	photos, err := s.Photos().forSpecimen(specimenID)
	require.NoError(t, err)
	require.Len(t, photos, 3)
	assert.Equal(t, []int64{ids[2], ids[0], ids[1]},
		[]int64{photos[0].ID, photos[1].ID, photos[2].ID})
}

func TestPhotoDeletePromotesNextPrimary(t *testing.T) {
	s, files := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg", "b.jpg", "c.jpg")

	require.NoError(t, s.Photos().Delete(ids[0]))

	photos, err := s.Photos().forSpecimen(specimenID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	// The lowest remaining sort position inherits the primary flag.
	assert.Equal(t, ids[1], photos[0].ID)
	assert.True(t, photos[0].Primary)
	assert.False(t, photos[1].Primary)

	assert.Equal(t, []string{"a.jpg"}, files.deleted)
}

func TestPhotoDeleteNonPrimary(t *testing.T) {
	s, _ := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg", "b.jpg")

	require.NoError(t, s.Photos().Delete(ids[1]))

	photos, err := s.Photos().forSpecimen(specimenID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.True(t, photos[0].Primary)
}

func TestPhotoDeleteLast(t *testing.T) {
	s, _ := newTestStore(t)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg")

	require.NoError(t, s.Photos().Delete(ids[0]))

	photos, err := s.Photos().forSpecimen(specimenID)
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestPhotoDeleteMissing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.Photos().Delete(42), types.ErrNotFound)
}

func TestPhotoDeleteRacingPrimarySwap(t *testing.T) {
	s, _ := newTestStore(t)
	// One connection forces the swap and the delete to fully serialize, in
	// whichever order the scheduler picks.
	s.db.SetMaxOpenConns(1)
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg", "b.jpg")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		// The swap target may already be gone when this runs.
		if err := s.Photos().SetPrimary(ids[1], specimenID); err != nil {
			assert.ErrorIs(t, err, types.ErrNotFound)
		}
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Photos().Delete(ids[1]))
	}()
	wg.Wait()

	// Whichever operation won, a photo remains, so exactly one is primary.
	photos, err := s.Photos().forSpecimen(specimenID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, ids[0], photos[0].ID)
	assert.True(t, photos[0].Primary)
}

func TestPhotoDeleteSurvivesStorageFailure(t *testing.T) {
	s, files := newTestStore(t)
	files.err = errors.New("disk unplugged")
	specimenID := mustCreateSpecimen(t, s, types.Specimen{Name: "Quartz"})
	ids := addPhotos(t, s, specimenID, "a.jpg")

	// The row is the source of truth; file cleanup failure is logged only.
	require.NoError(t, s.Photos().Delete(ids[0]))
	_, err := s.Photos().Find(ids[0])
	assert.ErrorIs(t, err, types.ErrNotFound)
}
