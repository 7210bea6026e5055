package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/riskibarqy/day-planner/internal/domain/timeline"
)

func renderDays(out io.Writer, views []dayView) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, view := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", view.date.String())
		if len(view.items) == 0 {
			fmt.Fprintln(w, "  (nothing planned)")
			continue
		}
		for _, item := range view.items {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				formatTime(item, view.location),
				completionMark(item),
				item.Kind,
				item.Title,
				strings.TrimSpace(strings.Join(nonEmpty(item.Venue, item.SourceNote), " | ")),
			)
		}
	}
	return w.Flush()
}

func renderFavorites(out io.Writer, sports []followedSport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if len(sports) == 0 {
		fmt.Fprintln(w, "no favorites yet")
		return w.Flush()
	}
	fmt.Fprintln(w, "SPORT\tTEAM")
	for _, sport := range sports {
		for _, team := range sport.Teams {
			fmt.Fprintf(w, "%s\t%s\n", sport.Name, team.Name)
		}
	}
	return w.Flush()
}

func formatTime(item timeline.Item, loc *time.Location) string {
	if item.StartTime == nil {
		return "all day"
	}
	if loc == nil {
		loc = time.Local
	}
	start := item.StartTime.In(loc).Format("15:04")
	if item.EndTime == nil {
		return start
	}
	return start + "-" + item.EndTime.In(loc).Format("15:04")
}

func completionMark(item timeline.Item) string {
	if !item.Kind.Completable() {
		return " "
	}
	if item.Completed {
		return "x"
	}
	return "-"
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
