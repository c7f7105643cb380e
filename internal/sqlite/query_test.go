package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webfeathers/gemshelf/pkg/types"
)

func names(page types.Page) []string {
	out := make([]string, len(page.Items))
	for i := range page.Items {
		out[i] = page.Items[i].Name
	}
	return out
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore(t)
	locality := mustCreateField(t, s, types.Field{Label: "Locality"})
	notes := mustCreateField(t, s, types.Field{Label: "Notes"})

	amethyst := mustCreateSpecimen(t, s, types.Specimen{
		Name: "Amethyst", Description: "purple quartz variety", Published: true})
	citrine := mustCreateSpecimen(t, s, types.Specimen{Name: "Citrine", Published: true})
	mustCreateSpecimen(t, s, types.Specimen{Name: "Draft Quartz"})

	require.NoError(t, s.Specimens().SaveFieldValues(citrine, map[int64]string{
		locality: "Minas Gerais, Brazil",
	}))
	// Two values matching the same term on one specimen.
	require.NoError(t, s.Specimens().SaveFieldValues(amethyst, map[int64]string{
		locality: "Artigas, Uruguay",
		notes:    "classic Uruguay geode section",
	}))

	t.Run("matches name", func(t *testing.T) {
		page, err := s.Specimens().Search("citrine", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Citrine"}, names(page))
		assert.Equal(t, 1, page.Total)
	})

	t.Run("matches description", func(t *testing.T) {
		page, err := s.Specimens().Search("purple", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Amethyst"}, names(page))
	})

	t.Run("matches field value", func(t *testing.T) {
		page, err := s.Specimens().Search("Brazil", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Citrine"}, names(page))
	})

	t.Run("specimen with several matching values appears once", func(t *testing.T) {
		page, err := s.Specimens().Search("Uruguay", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Amethyst"}, names(page))
		assert.Equal(t, 1, page.Total)
	})

	t.Run("unpublished specimens excluded", func(t *testing.T) {
		page, err := s.Specimens().Search("Draft", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
	})

	t.Run("no match", func(t *testing.T) {
		page, err := s.Specimens().Search("obsidian", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
	})
}

// filterFixture builds the color/hardness matrix used by the filter tests:
// four published specimens covering every combination of two colors and two
// hardness values, plus one unpublished row that would otherwise match.
func filterFixture(t *testing.T, s *Store) (colorID, hardnessID int64) {
	t.Helper()
	colorID = mustCreateField(t, s, types.Field{Label: "Color", Filterable: true})
	hardnessID = mustCreateField(t, s, types.Field{Label: "Hardness", Filterable: true})

	rows := []struct {
		name      string
		color     string
		hardness  string
		published bool
	}{
		{"Red Seven", "red", "7", true},
		{"Blue Seven", "blue", "7", true},
		{"Red Five", "red", "5", true},
		{"Blue Five", "blue", "5", true},
		{"Hidden Seven", "red", "7", false},
	}
	for _, r := range rows {
		id := mustCreateSpecimen(t, s, types.Specimen{Name: r.name, Published: r.published})
		require.NoError(t, s.Specimens().SaveFieldValues(id, map[int64]string{
			colorID:    r.color,
			hardnessID: r.hardness,
		}))
	}
	return colorID, hardnessID
}

func TestFilter(t *testing.T) {
	s, _ := newTestStore(t)
	colorID, hardnessID := filterFixture(t, s)

	t.Run("single field single value", func(t *testing.T) {
		page, err := s.Specimens().Filter(map[int64][]string{hardnessID: {"7"}}, 1, 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Seven", "Blue Seven"}, names(page))
		assert.Equal(t, 2, page.Total)
	})

	t.Run("two fields intersect", func(t *testing.T) {
		page, err := s.Specimens().Filter(map[int64][]string{
			colorID:    {"red"},
			hardnessID: {"7"},
		}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Red Seven"}, names(page))
		assert.Equal(t, 1, page.Total)
	})

	t.Run("several values within a field union", func(t *testing.T) {
		page, err := s.Specimens().Filter(map[int64][]string{
			colorID:    {"red", "blue"},
			hardnessID: {"7"},
		}, 1, 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Seven", "Blue Seven"}, names(page))
	})

	t.Run("no combination matches", func(t *testing.T) {
		page, err := s.Specimens().Filter(map[int64][]string{
			colorID:    {"green"},
			hardnessID: {"7"},
		}, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
	})

	t.Run("blank values drop the constraint", func(t *testing.T) {
		page, err := s.Specimens().Filter(map[int64][]string{
			colorID:    {"  ", ""},
			hardnessID: {"5"},
		}, 1, 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Five", "Blue Five"}, names(page))
	})

	t.Run("empty filter lists all published", func(t *testing.T) {
		page, err := s.Specimens().Filter(nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)
	})

	t.Run("total independent of page window", func(t *testing.T) {
		page, err := s.Specimens().Filter(map[int64][]string{
			colorID: {"red", "blue"},
		}, 2, 3)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 4, page.Total)
	})
}
