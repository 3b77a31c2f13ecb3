package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/ridestats/internal/synth"
	"github.com/okian/ridestats/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	def := synth.DefaultConfig()
	var (
		dir           = flag.String("dir", "datasets", "Output directory")
		format        = flag.String("format", def.Format, "Output format: csv or xlsx")
		operators     = flag.Int("operators", def.Operators, "Number of taxi companies")
		neighborhoods = flag.Int("neighborhoods", def.Neighborhoods, "Number of drop-off neighborhoods")
		start         = flag.String("start", def.Start.Format(dateLayout), "First ride date (YYYY-MM-DD)")
		end           = flag.String("end", def.End.Format(dateLayout), "Last ride date, inclusive (YYYY-MM-DD)")
		perDay        = flag.Int("rides-per-day", def.RidesPerDay, "Rides generated per day")
		goodShare     = flag.Float64("good-share", def.GoodShare, "Probability of Good weather")
		goodMean      = flag.Float64("good-mean", def.GoodMean, "Mean ride duration in seconds under Good weather")
		badMean       = flag.Float64("bad-mean", def.BadMean, "Mean ride duration in seconds under Bad weather")
		stdDev        = flag.Float64("stddev", def.StdDev, "Ride duration standard deviation in seconds")
		seed          = flag.Uint64("seed", def.Seed, "Random seed")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := synth.Config{
		Dir:           *dir,
		Format:        *format,
		Operators:     *operators,
		Neighborhoods: *neighborhoods,
		RidesPerDay:   *perDay,
		GoodShare:     *goodShare,
		GoodMean:      *goodMean,
		BadMean:       *badMean,
		StdDev:        *stdDev,
		Seed:          *seed,
	}
	var err error
	if cfg.Start, err = time.Parse(dateLayout, *start); err != nil {
		fail("invalid -start", err)
	}
	if cfg.End, err = time.Parse(dateLayout, *end); err != nil {
		fail("invalid -end", err)
	}

	stats, err := synth.Generate(ctx, cfg)
	if err != nil {
		fail("generation failed", err)
	}
	fmt.Printf("wrote %s, %s, %s to %s (%d rides: %d good, %d bad)\n",
		stats.Files.Operators, stats.Files.Neighborhoods, stats.Files.Rides, cfg.Dir,
		stats.Rides, stats.GoodRides, stats.BadRides)
}

func fail(msg string, err error) {
	os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
