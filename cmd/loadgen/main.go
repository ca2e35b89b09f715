package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/nutriscreen/internal/loadgen"
)

// Default configuration constants.
const (
	defaultSubjects    = 5000
	defaultTopN        = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultPoll        = 50 * time.Millisecond
	defaultPollTimeout = 2 * time.Minute
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		subjects    = flag.Int("subjects", defaultSubjects, "Number of subjects to generate and submit")
		topN        = flag.Int("top", defaultTopN, "Number of top risk screenings to fetch")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent requests")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		pollTimeout = flag.Duration("poll-timeout", defaultPollTimeout, "How long to wait for results")
		seed        = flag.Uint64("seed", 0, "Generator seed; 0 picks one from the clock")
		outputFile  = flag.String("output", "", "Write the generated requests to this JSON file")
		logFile     = flag.String("log", "", "Also write logs to this file")
		logLevel    = flag.String("log-level", "info", "Log level")
		verbose     = flag.Bool("verbose", false, "Log every rejected submission")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp(os.Stdout)
		return
	}

	closer, err := loadgen.SetupLogging(*logFile, *logLevel)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL:      *baseURL,
		NumSubjects:  *subjects,
		TopN:         *topN,
		Workers:      *workers,
		Timeout:      *timeout,
		PollInterval: defaultPoll,
		PollTimeout:  *pollTimeout,
		Seed:         *seed,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	}

	stats, runErr := loadgen.Run(ctx, cfg)
	if stats != nil {
		_ = loadgen.WriteReport(os.Stdout, stats)
	}
	if runErr != nil {
		os.Stderr.WriteString("Load run failed: " + runErr.Error() + "\n")
		closer.Close()
		os.Exit(1)
	}
}
