package config

import (
	"fmt"

	"github.com/okian/nutriscreen/internal/domain/classify"
	"github.com/okian/nutriscreen/internal/domain/reference"
)

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.BatchParallelism <= 0:
		return fmt.Errorf("%w: batch_parallelism must be positive", ErrInvalidConfig)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	case c.MaxRecords < 0:
		return fmt.Errorf("%w: max_records must not be negative", ErrInvalidConfig)
	case c.PregnancyMinAgeYears < 0:
		return fmt.Errorf("%w: pregnancy_min_age_years must not be negative", ErrInvalidConfig)
	case c.RoundingPrecision < 0:
		return fmt.Errorf("%w: rounding_precision must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Strategies(); err != nil {
		return err
	}
	return nil
}

// Strategies returns the per-indicator lookup strategies. Indicators not
// named keep the store default.
func (c *Config) Strategies() (map[reference.Indicator]reference.Strategy, error) {
	out := make(map[reference.Indicator]reference.Strategy, len(c.ZScoreStrategy))
	for name, v := range c.ZScoreStrategy {
		ind := reference.Indicator(name)
		if !ind.Valid() {
			return nil, fmt.Errorf("%w: z_score_strategy: unknown indicator %q", ErrInvalidConfig, name)
		}
		s, err := reference.ParseStrategy(v)
		if err != nil {
			return nil, fmt.Errorf("%w: z_score_strategy.%s: %v", ErrInvalidConfig, name, err)
		}
		out[ind] = s
	}
	return out, nil
}

// PregnancyPolicy maps the secondary threshold flag to a classifier policy.
func (c *Config) PregnancyPolicy() classify.PregnancyPolicy {
	return classify.PolicyFromFlag(c.PregnancySecondaryThreshold)
}
