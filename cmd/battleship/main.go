package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"

	"battleship/internal/app"
	"battleship/internal/config"
	"battleship/internal/console"
	"battleship/internal/game"
	"battleship/internal/zk"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "play":
		cmdPlay(os.Args[2:])
	case "bench":
		cmdBench(os.Args[2:])
	case "layouts":
		cmdLayouts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println(`Battleship CLI

Commands:
  play    [--seed N] [--show-own] [--audit] [--log-level LEVEL]
  bench   [--runs N] [--seed-base N] [--seed-step N] [--workers N] [--v]
  layouts

Environment: BATTLESHIP_SEED, BATTLESHIP_SHOW_OWN, BATTLESHIP_AUDIT, BATTLESHIP_LOG_LEVEL`)
}

func newLogger(cfg config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "battleship",
	})
}

func cmdPlay(args []string) {
	cfg := config.Load()
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 picks one from the clock")
	fs.BoolVar(&cfg.ShowOwn, "show-own", cfg.ShowOwn, "draw your own ships")
	fs.BoolVar(&cfg.Audit, "audit", cfg.Audit, "commit the computer layout and prove every result")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	_ = fs.Parse(args)

	logger := newLogger(cfg)
	zk.SetLogOutput(os.Stderr, cfg.Level() <= log.DebugLevel)

	seed := cfg.ResolveSeed(time.Now())
	presenter := console.NewPresenter(os.Stdout, game.DefaultSize)
	s, err := app.Start(app.Options{
		ShowOwnShips: cfg.ShowOwn,
		Audit:        cfg.Audit,
		Rand:         rand.New(rand.NewSource(seed)),
		Logger:       logger,
	}, game.DefaultFleet(), game.DefaultCatalogue(), presenter)
	if err != nil {
		logger.Fatal("cannot start game", "err", err)
	}
	logger.Debug("session ready", "seed", seed)
	if c := s.Commitment(); c != "" {
		fmt.Println("Computer layout commitment:", c)
	}

	if err := play(s, presenter, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		logger.Fatal("game aborted", "err", err)
	}
}

func cmdBench(args []string) {
	cfg := config.Load()
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	runs := fs.Int("runs", 100, "number of trials")
	seedBase := fs.Int64("seed-base", 1, "seed of the first trial")
	seedStep := fs.Int64("seed-step", 1, "seed increment between trials")
	workers := fs.Int("workers", 0, "parallel trials, 0 uses GOMAXPROCS")
	verbose := fs.Bool("v", false, "print every trial")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	_ = fs.Parse(args)

	logger := newLogger(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	sum, err := app.Bench(ctx, app.BenchOptions{
		Runs:     *runs,
		SeedBase: *seedBase,
		SeedStep: *seedStep,
		Workers:  *workers,
	}, game.DefaultFleet(), game.DefaultCatalogue(), logger)
	if err != nil {
		logger.Fatal("bench failed", "err", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if *verbose {
		fmt.Fprintln(tw, "run\tseed\tlayout\tshots\thits\ttarget-mode")
		for i, t := range sum.Trials {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\n", i, t.Seed, t.Layout, t.Shots, t.Hits, t.TargetShots)
		}
	}
	fmt.Fprintf(tw, "runs\t%d\nmean shots\t%.2f\nmin\t%d\nmax\t%d\nelapsed\t%s\n",
		len(sum.Trials), sum.Mean, sum.Min, sum.Max, time.Since(start).Round(time.Millisecond))
	tw.Flush()
}

func cmdLayouts() {
	fleet := game.DefaultFleet()
	cat := game.DefaultCatalogue()
	if err := game.ValidateCatalogue(game.DefaultSize, fleet, cat); err != nil {
		log.Fatal("invalid catalogue", "err", err)
	}
	fmt.Printf("%d layouts, fleet %s\n", len(cat), fleet)
	for i, l := range cat {
		fmt.Printf("\n#%d\n%s", i, l)
	}
}
