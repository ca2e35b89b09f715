package service

import (
	"errors"

	"github.com/okian/nutriscreen/internal/adapters/mq/queue"
	"github.com/okian/nutriscreen/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrEmptyBatch    = errors.New("batch is empty")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrQueueFull     = queue.ErrQueueFull
	ErrStoreFull     = repository.ErrCapacity
	ErrNotFound      = repository.ErrNotFound
	ErrInvalidLimit  = repository.ErrInvalidLimit
)
