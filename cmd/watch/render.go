package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"airplane-watch/sleepwatch/internal/projection"
	"airplane-watch/sleepwatch/internal/services"
)

const timeLayout = "2006-01-02 15:04:05"

// render prints a plain-text dashboard.
func render(out io.Writer, view services.DashboardView) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "=== sleepwatch  %s UTC ===\n", view.GeneratedAt.Format(timeLayout))

	if view.Stats != nil {
		s := view.Stats
		peak := fmt.Sprintf("%.0f (%s)", s.PeakScoreToday, s.PeakRegion)
		if s.PeakHigh {
			peak += " !"
		}
		fmt.Fprintf(tw, "%s\tactive %d\tcountries %d\tprofiles %d\tvip %d\tpeak %s\n",
			s.Status, s.ActiveAircraft, s.CountriesActive, s.TotalProfiles, s.VIPAircraft, peak)
	} else {
		fmt.Fprintln(tw, "stats\twaiting for first poll")
	}

	fmt.Fprintln(tw)
	if view.Global != nil {
		fmt.Fprintf(tw, "GLOBAL\t%.1f\t%s\t%s\n", view.Global.OverallPanicScore, view.Global.Level, view.Global.Narrative)
	}
	for _, r := range view.Regions {
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\n", r.Region, r.OverallPanicScore, r.Level, r.Narrative)
	}

	if len(view.Alerts) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ALERTS")
		for _, a := range view.Alerts {
			fmt.Fprintf(tw, "%s\t%s\t%.0f\t%s\t%s\n", a.Icon, a.Region, a.Score, ago(view.GeneratedAt, a.Timestamp), a.Narrative)
		}
	}

	vip := 0
	for _, m := range view.Markers {
		if m.Class != projection.ClassStandard {
			vip++
		}
	}
	fmt.Fprintf(tw, "\nAIRCRAFT\t%d tracked\t%d vip\n", len(view.Markers), vip)
	for _, a := range view.Active {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", a.Country.Flag, a.Label, a.AircraftType, a.Operator, a.Badge)
	}

	if n := len(view.Trend); n > 0 {
		last := view.Trend[n-1]
		fmt.Fprintf(tw, "\nTREND\t%d points\tlast %.1f at %s\n", n, last.Score, last.Tooltip)
	}

	for _, f := range view.Feeds {
		if f.LastError != "" {
			fmt.Fprintf(tw, "feed %s\t%s\t%s\n", f.Name, f.Freshness, f.LastError)
		}
	}
	return tw.Flush()
}

func ago(now, t time.Time) string {
	d := now.Sub(t).Round(time.Minute)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
