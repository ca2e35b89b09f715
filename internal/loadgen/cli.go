package loadgen

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/nutriscreen/pkg/logger"
)

// SetupLogging initialises the logger, writing to stderr and, when logFile
// is set, to that file too. The returned closer releases the file.
func SetupLogging(logFile, level string) (io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = f
	}
	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return nil, fmt.Errorf("set log level: %w", err)
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ShowHelp prints usage information for the load generator.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Nutrition screening load generator
==================================

Generates random but plausible subjects, submits them to a running service,
waits for the results and prints how they were classified.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -subjects int
        Number of subjects to generate and submit (default 5000)
  -top int
        Number of top risk screenings to fetch (default 20)
  -workers int
        Number of concurrent requests (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -poll-timeout duration
        How long to wait for results (default 2m)
  -seed uint
        Generator seed; 0 picks one from the clock
  -output string
        Write the generated requests to this JSON file
  -log string
        Also write logs to this file
  -log-level string
        Log level (default "info")
  -verbose
        Log every rejected submission
  -help
        Show this help message

Examples:
  go run ./cmd/loadgen -subjects 20000 -workers 32
  go run ./cmd/loadgen -seed 42 -output subjects.json
`)
}
