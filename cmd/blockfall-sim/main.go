package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/plus3/blockfall/tetris"
)

func main() {
	defaults := tetris.DefaultConfig()

	games := flag.Int("games", 10, "The number of games to simulate.")
	seed := flag.Uint64("seed", 1, "Seed of the first game; game i uses seed+i. Zero picks a random seed per game.")
	frame := flag.Duration("frame", 16*time.Millisecond, "Simulated time advanced after every bot input.")
	maxPieces := flag.Int("max-pieces", 1000, "Stop a game after this many locked pieces.")
	gravity := flag.Duration("gravity", defaults.GravityInterval, "Time between gravity steps.")
	dasDelay := flag.Duration("das-delay", defaults.DASDelay, "Hold time before a movement key auto-repeats.")
	dasInterval := flag.Duration("das-interval", defaults.DASInterval, "Time between auto-repeats.")
	width := flag.Int("width", defaults.Width, "Grid width in cells.")
	height := flag.Int("height", defaults.Height, "Grid height in cells.")
	realtime := flag.Bool("realtime", false, "Run each game on the wall clock, one bot tap per frame, instead of simulated time.")
	flag.Parse()

	cfg := tetris.Config{
		Width:           *width,
		Height:          *height,
		GravityInterval: *gravity,
		DASDelay:        *dasDelay,
		DASInterval:     *dasInterval,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *frame <= 0 {
		log.Fatalf("Invalid configuration: frame must be positive, got %s", *frame)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	report := &Report{
		Config:    cfg,
		Games:     *games,
		Frame:     *frame,
		MaxPieces: *maxPieces,
		Realtime:  *realtime,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Simulating %d games on a %dx%d grid...\n", *games, cfg.Width, cfg.Height)
	startTime := time.Now()

	sim := &simulator{bot: defaultWeights, frame: *frame, maxPieces: *maxPieces, realtime: *realtime}
	for i := range *games {
		if ctx.Err() != nil {
			log.Println("Interrupted, reporting completed games.")
			break
		}

		gameCfg := cfg
		if *seed != 0 {
			gameCfg.Seed = *seed + uint64(i)
		}

		result, err := sim.play(ctx, gameCfg)
		if err != nil {
			log.Fatalf("Game %d failed: %v", i+1, err)
		}
		result.Game = i + 1

		log.Printf("Game %d: %d lines, %d pieces locked, ended by %s\n",
			result.Game, result.Lines, result.Locked, result.Ended)
		report.Add(result)
	}

	report.WallTime = time.Since(startTime)
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
