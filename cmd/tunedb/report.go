package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tunedb/tunedb/internal/iodb"
	"github.com/tunedb/tunedb/internal/ioquery"
	"github.com/tunedb/tunedb/pkg/catalog"
	"github.com/tunedb/tunedb/pkg/db"
)

var (
	reportFrom int
	reportTo   int
	reportTop  int
)

func getReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the catalog's analytical queries",
		Long: `Run one of the catalog's ranked analytical queries, or all of
them at once.

Year windows are inclusive on both ends; --top limits the number of
ranked rows and defaults to all of them.

Examples:
  tunedb report prolific --from 2018 --to 2023 --top 10
  tunedb report singles --from 2023
  tunedb report genres --top 5
  tunedb report crossover
  tunedb report rated --from 2020 --to 2023
  tunedb report listeners
  tunedb report all --from 2018 --to 2023`,
	}

	cmd.PersistentFlags().IntVar(&reportFrom, "from", 0,
		"first year of the window (inclusive)")
	cmd.PersistentFlags().IntVar(&reportTo, "to", 0,
		"last year of the window (inclusive)")
	cmd.PersistentFlags().IntVar(&reportTop, "top", catalog.NoLimit,
		"maximum number of ranked rows (default: all)")

	cmd.AddCommand(
		getProlificCmd(),
		getSinglesCmd(),
		getGenresCmd(),
		getCrossoverCmd(),
		getRatedCmd(),
		getListenersCmd(),
		getReportAllCmd(),
	)

	return cmd
}

// withAnalytics connects to the database and hands an Analytics
// instance to fn, closing the connection afterwards.
func withAnalytics(fn func(ctx context.Context, an catalog.Analytics) error) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	return fn(ctx, ioquery.New(op.Pool()))
}

func reportWindow() catalog.YearRange {
	return catalog.YearRange{Start: reportFrom, End: reportTo}
}

func getProlificCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prolific",
		Short: "Artists ranked by albums plus singles released in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				rows, err := an.ProlificArtists(ctx, reportWindow(), reportTop)
				if err != nil {
					return err
				}
				printProlific(rows)
				return nil
			})
		},
	}
}

func getSinglesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "singles",
		Short: "Each artist's latest single of a given year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if reportFrom == 0 {
				return fmt.Errorf("a year is required, use --from")
			}
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				rows, err := an.RecentSingles(ctx, reportFrom)
				if err != nil {
					return err
				}
				printSingles(rows)
				return nil
			})
		},
	}
}

func getGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "Genres ranked by number of tagged songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				rows, err := an.TopGenres(ctx, reportTop)
				if err != nil {
					return err
				}
				printGenres(rows)
				return nil
			})
		},
	}
}

func getCrossoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crossover",
		Short: "Artists with at least one album and one single",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				names, err := an.AlbumAndSingleArtists(ctx)
				if err != nil {
					return err
				}
				printCrossover(names)
				return nil
			})
		},
	}
}

func getRatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rated",
		Short: "Songs ranked by ratings received in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				rows, err := an.MostRatedSongs(ctx, reportWindow(), reportTop)
				if err != nil {
					return err
				}
				printRated(rows)
				return nil
			})
		},
	}
}

func getListenersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listeners",
		Short: "Listeners ranked by ratings given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				rows, err := an.MostEngagedListeners(ctx, reportWindow(), reportTop)
				if err != nil {
					return err
				}
				printListeners(rows)
				return nil
			})
		},
	}
}

func getReportAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every query and print the combined report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAnalytics(func(ctx context.Context, an catalog.Analytics) error {
				return runAllReports(ctx, an, getConfig().JobsNumber)
			})
		},
	}
}

// runAllReports executes the six queries concurrently, at most jobs at
// a time; the queries are read-only so they never contend.
func runAllReports(ctx context.Context, an catalog.Analytics, jobs int) error {
	var (
		prolific  []catalog.ArtistReleases
		singles   []catalog.Single
		genres    []catalog.GenreCount
		crossover []string
		rated     []catalog.SongRatings
		listeners []catalog.ListenerActivity
	)

	years := reportWindow()
	singlesYear := reportTo
	if singlesYear == 0 {
		singlesYear = reportFrom
	}

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	g.Go(func() (err error) {
		prolific, err = an.ProlificArtists(gctx, years, reportTop)
		return err
	})
	g.Go(func() (err error) {
		if singlesYear == 0 {
			return nil
		}
		singles, err = an.RecentSingles(gctx, singlesYear)
		return err
	})
	g.Go(func() (err error) {
		genres, err = an.TopGenres(gctx, reportTop)
		return err
	})
	g.Go(func() (err error) {
		crossover, err = an.AlbumAndSingleArtists(gctx)
		return err
	})
	g.Go(func() (err error) {
		rated, err = an.MostRatedSongs(gctx, years, reportTop)
		return err
	})
	g.Go(func() (err error) {
		listeners, err = an.MostEngagedListeners(gctx, years, reportTop)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println("== Prolific artists ==")
	printProlific(prolific)
	if singlesYear != 0 {
		fmt.Printf("\n== Latest singles of %d ==\n", singlesYear)
		printSingles(singles)
	}
	fmt.Println("\n== Top genres ==")
	printGenres(genres)
	fmt.Println("\n== Album and single artists ==")
	printCrossover(crossover)
	fmt.Println("\n== Most rated songs ==")
	printRated(rated)
	fmt.Println("\n== Most engaged listeners ==")
	printListeners(listeners)

	return nil
}

func printProlific(rows []catalog.ArtistReleases) {
	if len(rows) == 0 {
		fmt.Println("no matching artists")
		return
	}
	for i, r := range rows {
		fmt.Printf("%3d. %s (%d releases)\n", i+1, r.Artist, r.Releases)
	}
}

func printSingles(rows []catalog.Single) {
	if len(rows) == 0 {
		fmt.Println("no matching singles")
		return
	}
	for _, r := range rows {
		fmt.Printf("  %s: %q (%s)\n",
			r.Artist, r.Title, r.Released.Format("2006-01-02"))
	}
}

func printGenres(rows []catalog.GenreCount) {
	if len(rows) == 0 {
		fmt.Println("no tagged genres")
		return
	}
	for i, r := range rows {
		fmt.Printf("%3d. %s (%d songs)\n", i+1, r.Genre, r.Songs)
	}
}

func printCrossover(names []string) {
	if len(names) == 0 {
		fmt.Println("no matching artists")
		return
	}
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
}

func printRated(rows []catalog.SongRatings) {
	if len(rows) == 0 {
		fmt.Println("no rated songs")
		return
	}
	for i, r := range rows {
		fmt.Printf("%3d. %q by %s (%d ratings)\n", i+1, r.Title, r.Artist, r.Ratings)
	}
}

func printListeners(rows []catalog.ListenerActivity) {
	if len(rows) == 0 {
		fmt.Println("no active listeners")
		return
	}
	for i, r := range rows {
		fmt.Printf("%3d. %s (%d ratings)\n", i+1, r.Username, r.Ratings)
	}
}
