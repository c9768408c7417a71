// Package catalog loads users, genres, directors and films from an xlsx
// workbook into a CatalogWriter.
//
// Each sheet starts with a header row:
//
//	genres:    id | name
//	directors: id | name
//	users:     id | email | login | name | birthday
//	films:     id | name | description | release_date | duration | genre_ids | director_ids
//
// Dates are YYYY-MM-DD; id lists are comma separated. Missing sheets are skipped.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/internal/security"
	"github.com/mroshb/filmorate/pkg/logger"
	"github.com/mroshb/filmorate/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const (
	SheetGenres    = "genres"
	SheetDirectors = "directors"
	SheetUsers     = "users"
	SheetFilms     = "films"

	dateLayout = "2006-01-02"
)

type Summary struct {
	Genres    int
	Directors int
	Users     int
	Films     int
	Skipped   int
}

func ImportFile(ctx context.Context, path string, w repositories.CatalogWriter) (Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return Import(ctx, f, w)
}

// Import reads genres and directors before films so film references resolve.
// Malformed rows are logged and skipped; write errors abort the import.
func Import(ctx context.Context, f *excelize.File, w repositories.CatalogWriter) (Summary, error) {
	var sum Summary

	steps := []struct {
		sheet string
		count *int
		row   func(ctx context.Context, w repositories.CatalogWriter, row []string) (bool, error)
	}{
		{SheetGenres, &sum.Genres, importGenre},
		{SheetDirectors, &sum.Directors, importDirector},
		{SheetUsers, &sum.Users, importUser},
		{SheetFilms, &sum.Films, importFilm},
	}

	for _, step := range steps {
		rows, err := sheetRows(f, step.sheet)
		if err != nil {
			return sum, err
		}

		for i, row := range rows {
			if i == 0 || isBlank(row) {
				continue
			}

			ok, err := step.row(ctx, w, row)
			if err != nil {
				return sum, fmt.Errorf("sheet %s row %d: %w", step.sheet, i+1, err)
			}
			if !ok {
				logger.Warn("Skipping malformed catalog row", "sheet", step.sheet, "row", i+1)
				sum.Skipped++
				continue
			}
			*step.count++
		}
	}

	logger.Info("Catalog imported",
		"genres", sum.Genres, "directors", sum.Directors,
		"users", sum.Users, "films", sum.Films, "skipped", sum.Skipped)
	return sum, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func importGenre(ctx context.Context, w repositories.CatalogWriter, row []string) (bool, error) {
	id, ok := parseID(cell(row, 0))
	name := security.SanitizeString(cell(row, 1), 100)
	if !ok || name == "" {
		return false, nil
	}
	return true, w.SaveGenre(ctx, &models.Genre{ID: id, Name: name})
}

func importDirector(ctx context.Context, w repositories.CatalogWriter, row []string) (bool, error) {
	id, ok := parseID(cell(row, 0))
	name := security.SanitizeString(cell(row, 1), 255)
	if !ok || name == "" {
		return false, nil
	}
	return true, w.SaveDirector(ctx, &models.Director{ID: id, Name: name})
}

func importUser(ctx context.Context, w repositories.CatalogWriter, row []string) (bool, error) {
	id, ok := parseID(cell(row, 0))
	login := security.SanitizeString(cell(row, 2), 100)
	if !ok || login == "" {
		return false, nil
	}

	user := &models.User{
		ID:    id,
		Email: security.SanitizeString(cell(row, 1), 255),
		Login: login,
		Name:  security.SanitizeString(cell(row, 3), 255),
	}
	if raw := cell(row, 4); raw != "" {
		birthday, err := time.Parse(dateLayout, utils.NormalizeDigits(raw))
		if err != nil {
			return false, nil
		}
		user.Birthday = birthday
	}
	return true, w.SaveUser(ctx, user)
}

func importFilm(ctx context.Context, w repositories.CatalogWriter, row []string) (bool, error) {
	id, ok := parseID(cell(row, 0))
	name := security.SanitizeString(cell(row, 1), 255)
	if !ok || name == "" {
		return false, nil
	}

	release, err := time.Parse(dateLayout, utils.NormalizeDigits(cell(row, 3)))
	if err != nil {
		return false, nil
	}

	duration := 0
	if raw := cell(row, 4); raw != "" {
		if duration, err = strconv.Atoi(utils.NormalizeDigits(raw)); err != nil || duration < 0 {
			return false, nil
		}
	}

	genreIDs, ok := parseIDList(cell(row, 5))
	if !ok {
		return false, nil
	}
	directorIDs, ok := parseIDList(cell(row, 6))
	if !ok {
		return false, nil
	}

	film := &models.Film{
		ID:          id,
		Name:        name,
		Description: security.SanitizeString(cell(row, 2), 200),
		ReleaseDate: release,
		Duration:    duration,
	}
	for _, gid := range genreIDs {
		film.Genres = append(film.Genres, models.Genre{ID: gid})
	}
	for _, did := range directorIDs {
		film.Directors = append(film.Directors, models.Director{ID: did})
	}
	return true, w.SaveFilm(ctx, film)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(utils.NormalizeDigits(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseIDList(raw string) ([]uint, bool) {
	if raw == "" {
		return nil, true
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, ok := parseID(strings.TrimSpace(part))
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
