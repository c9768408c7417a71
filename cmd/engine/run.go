package main

import (
	"fmt"

	"github.com/mroshb/filmorate/internal/catalog"
	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/services"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/spf13/cobra"
)

func runImport(cmd *cobra.Command, args []string) error {
	sum, err := catalog.ImportFile(cmd.Context(), args[0], eng.Store.Catalog())
	if err != nil {
		return publicError(err)
	}
	fmt.Printf("imported %d genres, %d directors, %d users, %d films (%d rows skipped)\n",
		sum.Genres, sum.Directors, sum.Users, sum.Films, sum.Skipped)
	return nil
}

func runLike(cmd *cobra.Command, args []string) error {
	filmID, err := parseID("filmId", args[0])
	if err != nil {
		return err
	}
	userID, err := parseID("userId", args[1])
	if err != nil {
		return err
	}
	return publicError(eng.Engagement.AddLike(cmd.Context(), filmID, userID))
}

func runFriend(cmd *cobra.Command, args []string) error {
	userID, friendID, err := parseIDPair(args)
	if err != nil {
		return err
	}
	if err := eng.Friends.RequestFriend(cmd.Context(), userID, friendID); err != nil {
		return publicError(err)
	}

	status, err := eng.Friends.Status(cmd.Context(), userID, friendID)
	if err != nil {
		return publicError(err)
	}
	fmt.Printf("%d -> %d: %s\n", userID, friendID, status)
	return nil
}

func runTop(cmd *cobra.Command, args []string) error {
	count := topCount
	if !cmd.Flags().Changed("count") {
		count = eng.TopLimit
	}

	films, err := eng.Popularity.TopFilms(cmd.Context(), count, services.TopFilter{GenreID: topGenre, Year: topYear})
	if err != nil {
		return publicError(err)
	}
	printFilms(films)
	return nil
}

func runDirector(cmd *cobra.Command, args []string) error {
	directorID, err := parseID("directorId", args[0])
	if err != nil {
		return err
	}
	sortKey, err := models.ParseDirectorSort(sortBy)
	if err != nil {
		return publicError(err)
	}

	films, err := eng.Popularity.FilmsByDirector(cmd.Context(), directorID, sortKey)
	if err != nil {
		return publicError(err)
	}
	printFilms(films)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	fields, err := models.ParseSearchFields(searchBy)
	if err != nil {
		return publicError(err)
	}

	films, err := eng.Popularity.Search(cmd.Context(), query, fields)
	if err != nil {
		return publicError(err)
	}
	printFilms(films)
	return nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	userID, err := parseID("userId", args[0])
	if err != nil {
		return err
	}

	films, err := eng.Recommendations.Recommend(cmd.Context(), userID)
	if err != nil {
		return publicError(err)
	}
	printFilms(films)
	return nil
}

func runFeed(cmd *cobra.Command, args []string) error {
	userID, err := parseID("userId", args[0])
	if err != nil {
		return err
	}

	events, err := eng.Feed.ByUser(cmd.Context(), userID)
	if err != nil {
		return publicError(err)
	}
	for _, e := range events {
		fmt.Printf("%d\t%s\t%s %s\t%d\n", e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.EventType, e.Operation, e.EntityID)
	}
	return nil
}

func runCommonFriends(cmd *cobra.Command, args []string) error {
	userID, otherID, err := parseIDPair(args)
	if err != nil {
		return err
	}

	users, err := eng.Friends.CommonFriends(cmd.Context(), userID, otherID)
	if err != nil {
		return publicError(err)
	}
	for _, u := range users {
		fmt.Printf("%d\t%s\n", u.ID, u.DisplayName())
	}
	return nil
}

func runCommonFilms(cmd *cobra.Command, args []string) error {
	userID, otherID, err := parseIDPair(args)
	if err != nil {
		return err
	}

	films, err := eng.Popularity.CommonFilms(cmd.Context(), userID, otherID)
	if err != nil {
		return publicError(err)
	}
	printFilms(films)
	return nil
}

func printFilms(films []models.Film) {
	for _, f := range films {
		fmt.Printf("%d\t%s (%d)\t%d likes\n", f.ID, f.Name, f.ReleaseYear(), f.Likes)
	}
}

// publicError hides internal detail from the terminal.
func publicError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsExpected(err) {
		return err
	}
	return fmt.Errorf("%s", errors.PublicMessage(err))
}
