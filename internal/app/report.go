package service

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/okian/ridestats/internal/config"
	"github.com/okian/ridestats/internal/domain/hypothesis"
	"github.com/okian/ridestats/internal/domain/model"
	"github.com/okian/ridestats/internal/domain/ranking"
	"github.com/okian/ridestats/internal/domain/summary"
)

// Report is everything one run produced.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Operators        []model.Operator // ranked by trips
	Shares           []ranking.Share  // same order as Operators
	TopNeighborhoods []model.Neighborhood
	Summaries        []summary.Stats
	ChartPath        string

	Window      hypothesis.Window
	WindowRides int
	GoodN       int
	BadN        int
	Discarded   int
	Test        hypothesis.Result
	Decision    hypothesis.Decision
}

// WriteText prints the report in a fixed-width layout.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	pr := &printer{w: tw}

	pr.line("ridestats run %s (%s)", r.RunID, r.StartedAt.Format(time.RFC3339))
	pr.line("")

	pr.line("Trips per company (%d companies)", len(r.Operators))
	pr.line("rank\tcompany\ttrips\tshare")
	for i, s := range r.Shares {
		pr.line("%d\t%s\t%d\t%.2f%%", i+1, s.Name, s.Trips, 100*s.Fraction)
	}
	pr.line("")

	pr.line("Top %d drop-off neighborhoods", len(r.TopNeighborhoods))
	pr.line("rank\tneighborhood\taverage trips")
	for i, n := range r.TopNeighborhoods {
		pr.line("%d\t%s\t%.2f", i+1, n.Name, n.AverageTrips)
	}
	pr.line("")

	pr.line("Summary statistics")
	pr.line("column\tcount\tmean\tstd\tmin\t25%%\t50%%\t75%%\tmax")
	for _, s := range r.Summaries {
		pr.line("%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s", s.Name, s.Count,
			num(s.Mean), num(s.Std), num(s.Min), num(s.P25), num(s.P50), num(s.P75), num(s.Max))
	}
	pr.line("")

	if r.ChartPath != "" {
		pr.line("Charts written to %s", r.ChartPath)
		pr.line("")
	}

	pr.line("Ride duration, Good vs Bad weather")
	pr.line("window\t%ss %s to %s", r.Window.Weekday, r.Window.Start.Format(config.DateLayout), r.Window.End.Format(config.DateLayout))
	pr.line("rides\t%d (good %d, bad %d, discarded %d)", r.WindowRides, r.GoodN, r.BadN, r.Discarded)
	pr.line("mean good\t%s s", num(r.Test.MeanA))
	pr.line("mean bad\t%s s", num(r.Test.MeanB))
	pr.line("t statistic\t%.4f", r.Test.T)
	pr.line("degrees of freedom\t%.2f", r.Test.DF)
	pr.line("p-value\t%.6g", r.Test.P)
	pr.line("decision\t%s", verdict(r.Decision))

	if pr.err != nil {
		return pr.err
	}
	return tw.Flush()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func verdict(d hypothesis.Decision) string {
	if d.RejectNull {
		return fmt.Sprintf("reject the null hypothesis at alpha %.3g: mean durations differ", d.Alpha)
	}
	return fmt.Sprintf("fail to reject the null hypothesis at alpha %.3g", d.Alpha)
}
