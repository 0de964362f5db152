package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/gamelens/gamelens/internal/core"
)

// GameAggregator resolves one name group into a merged game.
type GameAggregator interface {
	Aggregate(ctx context.Context, group core.NameGroup) (*core.Game, error)
}

// Batch aggregates many groups concurrently. The batch is all or nothing:
// one failing group fails the whole run and no results are returned.
type Batch struct {
	Aggregator GameAggregator
	// Concurrency bounds the number of groups in flight. Zero or less runs
	// every group at once.
	Concurrency int
	Logger      *logging.Logger
}

type batchJob struct {
	index int
	group core.NameGroup
}

// Run returns one game per group, in input order.
func (b *Batch) Run(ctx context.Context, groups []core.NameGroup) ([]*core.Game, error) {
	if b == nil || b.Aggregator == nil {
		return nil, errors.New("batch has no aggregator")
	}
	if len(groups) == 0 {
		return nil, errors.New("at least one name group is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startedAt := time.Now()
	results := make([]*core.Game, len(groups))
	jobs := make(chan batchJob)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	setErr := func(err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			if ctx.Err() != nil {
				return
			}
			game, err := b.Aggregator.Aggregate(ctx, job.group)
			if err != nil {
				setErr(err)
				return
			}
			results[job.index] = game
		}
	}

	concurrency := b.Concurrency
	if concurrency <= 0 || concurrency > len(groups) {
		concurrency = len(groups)
	}
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go worker()
	}

sendLoop:
	for i, group := range groups {
		select {
		case <-ctx.Done():
			break sendLoop
		case jobs <- batchJob{index: i, group: group}:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if b.Logger != nil {
		b.Logger.Info("Batch complete",
			zap.Int("games", len(results)),
			zap.Int("concurrency", concurrency),
			zap.Duration("duration", time.Since(startedAt)))
	}
	return results, nil
}
