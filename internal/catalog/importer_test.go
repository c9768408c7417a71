package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, f *excelize.File, name string, rows [][]interface{}) {
	t.Helper()
	_, err := f.NewSheet(name)
	require.NoError(t, err)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(name, cellRef, &row))
	}
}

func newWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	writeSheet(t, f, SheetGenres, [][]interface{}{
		{"id", "name"},
		{"1", "Sci-Fi"},
		{"2", "Drama"},
	})
	writeSheet(t, f, SheetDirectors, [][]interface{}{
		{"id", "name"},
		{"1", "Lana Wachowski"},
		{"x", "Broken Row"},
	})
	writeSheet(t, f, SheetUsers, [][]interface{}{
		{"id", "email", "login", "name", "birthday"},
		{"1", "neo@example.com", "neo", "Thomas Anderson", "1971-09-13"},
		{"2", "trinity@example.com", "trinity", "", ""},
	})
	writeSheet(t, f, SheetFilms, [][]interface{}{
		{"id", "name", "description", "release_date", "duration", "genre_ids", "director_ids"},
		{"10", "The Matrix", "Wake up", "1999-03-31", "136", "1", "1"},
		{"11", "Cloud Atlas", "", "2012-10-26", "172", "1, 2", "1"},
		{"12", "No Date", "", "soon", "90", "", ""},
	})
	return f
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	sum, err := Import(ctx, newWorkbook(t), store.Catalog())
	require.NoError(t, err)
	assert.Equal(t, Summary{Genres: 2, Directors: 1, Users: 2, Films: 2, Skipped: 2}, sum)

	films, err := store.Entities().ListFilms(ctx, models.FilmFilter{GenreID: 2})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, "Cloud Atlas", films[0].Name)
	assert.Equal(t, 2012, films[0].ReleaseYear())
	assert.Equal(t, "Lana Wachowski", films[0].Directors[0].Name)
	assert.Len(t, films[0].Genres, 2)

	users, err := store.Entities().GetUsers(ctx, []uint{1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1971, users[0].Birthday.Year())
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, newWorkbook(t).SaveAs(path))

	store := memory.NewStore()
	sum, err := ImportFile(context.Background(), path, store.Catalog())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Films)

	_, err = ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), store.Catalog())
	assert.Error(t, err)
}

func TestImport_MissingSheetsAreSkipped(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sum, err := Import(context.Background(), f, memory.NewStore().Catalog())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}

func TestParseIDList(t *testing.T) {
	ids, ok := parseIDList("3, 1,۲")
	require.True(t, ok)
	assert.Equal(t, []uint{3, 1, 2}, ids)

	_, ok = parseIDList("1,,2")
	assert.False(t, ok)

	ids, ok = parseIDList("")
	assert.True(t, ok)
	assert.Empty(t, ids)
}
