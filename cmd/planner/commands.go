package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/app"
	"github.com/riskibarqy/day-planner/internal/config"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/spf13/cobra"
)

// plannerServices is the part of the wiring the commands use.
type plannerServices interface {
	today() civil.Date
	day(ctx context.Context, date civil.Date, includeCompleted bool) (dayView, error)
	days(ctx context.Context, from civil.Date, n int, includeCompleted bool) ([]dayView, error)
	fixtures(ctx context.Context, date civil.Date) (dayView, error)
	favorites() []followedSport
	addFavorite(ctx context.Context, sport, team string) ([]followedSport, error)
	removeFavorite(ctx context.Context, sport, team string) ([]followedSport, error)
	close() error
}

type cli struct {
	out      io.Writer
	open     func(ctx context.Context) (plannerServices, error)
	services plannerServices
}

func newRootCommand(out io.Writer) *cobra.Command {
	return newRootCommandWith(out, openApp)
}

func newRootCommandWith(out io.Writer, open func(ctx context.Context) (plannerServices, error)) *cobra.Command {
	c := &cli{out: out, open: open}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Day planner: your items and your teams' fixtures on one timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			services, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.services = services
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.services == nil {
				return nil
			}
			return c.services.close()
		},
	}

	root.AddCommand(c.timelineCommand(), c.fixturesCommand(), c.favoritesCommand())
	return root
}

func (c *cli) timelineCommand() *cobra.Command {
	var (
		date             string
		days             int
		includeCompleted bool
	)
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the merged timeline for a day or a range of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := c.parseDate(date)
			if err != nil {
				return err
			}
			if days <= 1 {
				view, err := c.services.day(cmd.Context(), from, includeCompleted)
				if err != nil {
					return err
				}
				return renderDays(c.out, []dayView{view})
			}
			views, err := c.services.days(cmd.Context(), from, days, includeCompleted)
			if err != nil {
				return err
			}
			return renderDays(c.out, views)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show as YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&days, "days", 1, "number of days starting at --date")
	cmd.Flags().BoolVar(&includeCompleted, "include-completed", false, "include completed tasks and habits")
	return cmd
}

func (c *cli) fixturesCommand() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Show fixtures of followed teams for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := c.parseDate(date)
			if err != nil {
				return err
			}
			view, err := c.services.fixtures(cmd.Context(), day)
			if err != nil {
				return err
			}
			return renderDays(c.out, []dayView{view})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show as YYYY-MM-DD (default today)")
	return cmd
}

func (c *cli) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage followed sports and teams",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List followed sports and teams",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return renderFavorites(c.out, c.services.favorites())
			},
		},
		&cobra.Command{
			Use:   "add <sport> <team>",
			Short: "Follow a team",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				sports, err := c.services.addFavorite(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return renderFavorites(c.out, sports)
			},
		},
		&cobra.Command{
			Use:   "remove <sport> [team]",
			Short: "Unfollow a team, or a whole sport when no team is given",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				team := ""
				if len(args) == 2 {
					team = args[1]
				}
				sports, err := c.services.removeFavorite(cmd.Context(), args[0], team)
				if err != nil {
					return err
				}
				return renderFavorites(c.out, sports)
			},
		},
	)
	return cmd
}

func (c *cli) parseDate(raw string) (civil.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.services.today(), nil
	}
	date, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", raw)
	}
	return date, nil
}

// openApp builds the shared wiring. The CLI keeps favorites in SQLite unless
// FAVORITES_STORE says otherwise.
func openApp(ctx context.Context) (plannerServices, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(os.Getenv("FAVORITES_STORE")) == "" {
		cfg.FavoritesStore = config.FavoritesStoreSQLite
	}

	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", "planner-cli")
	logging.SetDefault(logger)

	planner, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &appServices{app: planner}, nil
}
