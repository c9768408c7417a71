package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mroshb/filmorate/internal/catalog"
	"github.com/mroshb/filmorate/internal/config"
	"github.com/mroshb/filmorate/internal/engine"
	"github.com/mroshb/filmorate/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	topCount    int
	topGenre    uint
	topYear     int
	sortBy      string
	searchBy    string

	eng *engine.Engine

	rootCmd = &cobra.Command{
		Use:           "engine",
		Short:         "Engagement and recommendation engine for the film catalog",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return openEngine(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if eng == nil {
				return nil
			}
			return eng.Close()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("schema is up to date")
			return nil
		},
	}

	importCmd = &cobra.Command{
		Use:   "import [workbook.xlsx]",
		Short: "Load genres, directors, users and films from an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	likeCmd = &cobra.Command{
		Use:   "like [filmId] [userId]",
		Short: "Record a film like",
		Args:  cobra.ExactArgs(2),
		RunE:  runLike,
	}

	friendCmd = &cobra.Command{
		Use:   "friend [userId] [friendId]",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(2),
		RunE:  runFriend,
	}

	topCmd = &cobra.Command{
		Use:   "top",
		Short: "List the most liked films",
		Args:  cobra.NoArgs,
		RunE:  runTop,
	}

	directorCmd = &cobra.Command{
		Use:   "director [directorId]",
		Short: "List a director's films sorted by year or likes",
		Args:  cobra.ExactArgs(1),
		RunE:  runDirector,
	}

	searchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "Search films by title and/or director",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}

	recommendCmd = &cobra.Command{
		Use:   "recommend [userId]",
		Short: "Recommend films from the user's nearest neighbor",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecommend,
	}

	feedCmd = &cobra.Command{
		Use:   "feed [userId]",
		Short: "Show a user's activity, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE:  runFeed,
	}

	commonFriendsCmd = &cobra.Command{
		Use:   "common-friends [userId] [otherId]",
		Short: "List friends two users share",
		Args:  cobra.ExactArgs(2),
		RunE:  runCommonFriends,
	}

	commonFilmsCmd = &cobra.Command{
		Use:   "common-films [userId] [otherId]",
		Short: "List films both users like",
		Args:  cobra.ExactArgs(2),
		RunE:  runCommonFilms,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "xlsx workbook to import before running the command")

	topCmd.Flags().IntVarP(&topCount, "count", "n", 0, "number of films (default DEFAULT_TOP_LIMIT)")
	topCmd.Flags().UintVar(&topGenre, "genre", 0, "only films of this genre id")
	topCmd.Flags().IntVar(&topYear, "year", 0, "only films released in this year")

	directorCmd.Flags().StringVar(&sortBy, "sort", "year", "sort key: year or likes")
	searchCmd.Flags().StringVar(&searchBy, "by", "title", "comma separated fields: title,director")

	rootCmd.AddCommand(
		migrateCmd, importCmd, likeCmd, friendCmd,
		topCmd, directorCmd, searchCmd, recommendCmd, feedCmd,
		commonFriendsCmd, commonFilmsCmd,
	)
}

func openEngine(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateProductionSecurity(); err != nil {
		return err
	}

	eng, err = engine.Open(cfg)
	if err != nil {
		return err
	}

	if catalogPath != "" {
		if _, err := catalog.ImportFile(ctx, catalogPath, eng.Store.Catalog()); err != nil {
			return err
		}
	}

	logger.Debug("Engine ready", "backend", cfg.StorageBackend)
	return nil
}

func parseID(name, raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return uint(id), nil
}

func parseIDPair(args []string) (uint, uint, error) {
	a, err := parseID("userId", args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseID("otherId", args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
