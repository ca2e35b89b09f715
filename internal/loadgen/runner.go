// Package loadgen drives a running screening service with random but
// plausible subjects and reports how they were classified.
package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/nutriscreen/internal/domain/types"
	"github.com/okian/nutriscreen/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// ErrIncomplete is returned when some screenings never produced a result.
var ErrIncomplete = errors.New("screenings incomplete")

type ack struct {
	Status      string `json:"status"`
	ScreeningID string `json:"screening_id"`
	Duplicate   bool   `json:"duplicate"`
}

// Run executes a complete load run and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get().Named("loadgen")
	stats := newStats()
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting load run",
		logger.String("base_url", cfg.BaseURL),
		logger.Int("subjects", cfg.NumSubjects),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	if _, err := client.getJSON(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	screenings := NewGenerator(seed, time.Now().UTC()).Generate(cfg.NumSubjects)
	stats.Generated = len(screenings)
	log.Info(ctx, "generated screenings", logger.Int("count", len(screenings)), logger.Any("seed", seed))

	if cfg.OutputFile != "" {
		if err := saveScreenings(cfg.OutputFile, screenings); err != nil {
			log.Warn(ctx, "failed to save screenings", logger.Error(err))
		}
	}

	accepted, err := submit(ctx, cfg, client, screenings, stats, log)
	if err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	if err := poll(ctx, cfg, client, accepted, stats); err != nil {
		return stats, fmt.Errorf("polling failed: %w", err)
	}

	if cfg.TopN > 0 {
		var top []types.Record
		if _, err := client.getJSON(ctx, fmt.Sprintf("/screenings/top?limit=%d", cfg.TopN), &top); err != nil {
			log.Warn(ctx, "top risk retrieval failed", logger.Error(err))
		} else {
			stats.TopRisk = len(top)
			if err := verifyTopRisk(top); err != nil {
				log.Warn(ctx, "top risk ordering", logger.Error(err))
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "load run finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("completed", stats.Completed),
		logger.Int("missing", stats.Missing),
		logger.Duration("duration", stats.Duration))

	if stats.Missing > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrIncomplete, stats.Missing, stats.Accepted)
	}
	return stats, nil
}

// submit posts every screening with bounded concurrency and returns the IDs
// that were accepted.
func submit(ctx context.Context, cfg *Config, client *httpClient, screenings []Screening, stats *Stats, log logger.Logger) ([]string, error) {
	var (
		mu       sync.Mutex
		accepted = make([]string, 0, len(screenings))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := range screenings {
		g.Go(func() error {
			var a ack
			status, err := client.postJSON(gctx, "/screenings", screenings[i], &a)

			mu.Lock()
			defer mu.Unlock()
			stats.Submitted++
			switch {
			case err != nil && status == 0:
				return err
			case err != nil:
				stats.Rejected++
				if cfg.Verbose {
					log.Warn(gctx, "screening rejected", logger.String("screening_id", screenings[i].ScreeningID), logger.Int("status", status))
				}
			case a.Duplicate:
				stats.Duplicate++
			default:
				stats.Accepted++
				accepted = append(accepted, a.ScreeningID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return accepted, nil
}

// poll waits until every accepted screening has a stored result or the
// poll timeout elapses.
func poll(ctx context.Context, cfg *Config, client *httpClient, ids []string, stats *Stats) error {
	pctx, cancel := context.WithTimeout(ctx, cfg.PollTimeout)
	defer cancel()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(pctx)
	g.SetLimit(max(cfg.Workers, 1))
	for _, id := range ids {
		g.Go(func() error {
			rec, ok := waitForRecord(gctx, cfg, client, id)
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				stats.Missing++
				return nil
			}
			stats.add(&rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func waitForRecord(ctx context.Context, cfg *Config, client *httpClient, id string) (types.Record, bool) {
	path := "/screenings/" + url.PathEscape(id)
	for {
		var rec types.Record
		status, err := client.getJSON(ctx, path, &rec)
		if err == nil {
			return rec, true
		}
		if status != http.StatusNotFound && status != 0 {
			return types.Record{}, false
		}
		select {
		case <-ctx.Done():
			return types.Record{}, false
		case <-time.After(cfg.PollInterval):
		}
	}
}

// saveScreenings writes the generated requests as a JSON array.
func saveScreenings(filename string, screenings []Screening) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(screenings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal screenings: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
