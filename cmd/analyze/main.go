// Command analyze runs a single coverage analysis from the command line.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  --policy ./docs/pds.pdf \
//	  --schedule ./docs/schedule.pdf \
//	  --type home \
//	  --question "Is flood damage covered?"
//
// Configuration comes from the environment (see config.go), optionally
// seeded from a .env file. The assessment is printed to stdout as JSON;
// logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/covergauge/covergauge"
)

func main() {
	policyPath := flag.String("policy", "", "Path to the Policy Disclosure Statement PDF")
	schedulePath := flag.String("schedule", "", "Path to the Schedule of Coverage PDF")
	insuranceType := flag.String("type", "home", "Insurance type, e.g. home, auto, travel")
	question := flag.String("question", "", "Coverage question to assess")
	timeout := flag.Duration("timeout", 3*time.Minute, "Overall analysis timeout")
	verbose := flag.Bool("v", false, "Log pipeline steps to stderr")
	flag.Parse()

	godotenv.Load()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *policyPath == "" || *schedulePath == "" || *question == "" {
		fmt.Fprintln(os.Stderr, `usage: analyze --policy pds.pdf --schedule schedule.pdf --question "..." [--type home]`)
		os.Exit(2)
	}

	cfg, err := covergauge.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	policyPDF, err := os.ReadFile(*policyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading policy: %v\n", err)
		os.Exit(1)
	}
	schedulePDF, err := os.ReadFile(*schedulePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading schedule: %v\n", err)
		os.Exit(1)
	}

	engine, err := covergauge.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating engine: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	assessment, err := engine.Analyze(ctx, covergauge.CoverageRequest{
		PolicyPDF:     policyPDF,
		SchedulePDF:   schedulePDF,
		InsuranceType: *insuranceType,
		Question:      *question,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(assessment)
}
