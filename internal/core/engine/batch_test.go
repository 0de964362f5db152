package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gamelens/gamelens/internal/core"
)

type funcAggregator func(ctx context.Context, group core.NameGroup) (*core.Game, error)

func (f funcAggregator) Aggregate(ctx context.Context, group core.NameGroup) (*core.Game, error) {
	return f(ctx, group)
}

func TestBatchPreservesInputOrder(t *testing.T) {
	delays := map[string]time.Duration{
		"slow":   30 * time.Millisecond,
		"medium": 10 * time.Millisecond,
		"fast":   0,
	}
	aggregator := funcAggregator(func(ctx context.Context, group core.NameGroup) (*core.Game, error) {
		time.Sleep(delays[group.Primary()])
		return &core.Game{Name: group.Primary()}, nil
	})

	batch := &Batch{Aggregator: aggregator}
	games, err := batch.Run(context.Background(), []core.NameGroup{
		mustGroup(t, "slow"),
		mustGroup(t, "medium"),
		mustGroup(t, "fast"),
	})
	require.NoError(t, err)
	require.Len(t, games, 3)
	require.Equal(t, "slow", games[0].Name)
	require.Equal(t, "medium", games[1].Name)
	require.Equal(t, "fast", games[2].Name)
}

func TestBatchRunsGroupsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	release := make(chan struct{})

	aggregator := funcAggregator(func(ctx context.Context, group core.NameGroup) (*core.Game, error) {
		current := inFlight.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		if current == 3 {
			close(release)
		}
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		inFlight.Add(-1)
		return &core.Game{Name: group.Primary()}, nil
	})

	batch := &Batch{Aggregator: aggregator}
	_, err := batch.Run(context.Background(), []core.NameGroup{
		mustGroup(t, "a"), mustGroup(t, "b"), mustGroup(t, "c"),
	})
	require.NoError(t, err)
	require.Equal(t, int32(3), peak.Load())
}

func TestBatchIsAtomicOnNotFound(t *testing.T) {
	a, b, c := newSources()
	a.found = map[string]string{"portal 2": "Portal 2"}
	batch := &Batch{Aggregator: &Aggregator{Sources: []Source{a, b, c}}}

	games, err := batch.Run(context.Background(), []core.NameGroup{
		mustGroup(t, "portal 2"),
		mustGroup(t, "nonexistent-game-xyz"),
	})
	require.ErrorIs(t, err, core.ErrNotFound)
	require.Nil(t, games)
}

func TestBatchPropagatesHardError(t *testing.T) {
	boom := core.NewSourceError(core.SourceSteam, core.KindAPIUnsuccessful, core.ErrAPIUnsuccessful)

	a, b, c := newSources()
	a.found = map[string]string{"celeste": "Celeste"}
	b.errs = map[string]error{"portal 2": boom}
	batch := &Batch{Aggregator: &Aggregator{Sources: []Source{a, b, c}}}

	games, err := batch.Run(context.Background(), []core.NameGroup{
		mustGroup(t, "celeste"),
		mustGroup(t, "portal 2"),
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, core.KindAPIUnsuccessful, core.KindOf(err))
	require.Nil(t, games)
}

func TestBatchCelesteAliasesScenario(t *testing.T) {
	a, b, c := newSources()
	a.found = map[string]string{"celeste": "Celeste"}
	c.found = map[string]string{"celeste": "Celeste"}
	batch := &Batch{Aggregator: &Aggregator{Sources: []Source{a, b, c}}}

	games, err := batch.Run(context.Background(), []core.NameGroup{mustGroup(t, "celeste|Celeste Classic")})
	require.NoError(t, err)
	require.Len(t, games, 1)

	slot, ok := games[0].Slot(core.SourceOpenCritic)
	require.True(t, ok)
	require.False(t, slot.Found())
	require.Contains(t, b.calls(), "celeste classic")
}

func TestBatchBoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	aggregator := funcAggregator(func(ctx context.Context, group core.NameGroup) (*core.Game, error) {
		current := inFlight.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return &core.Game{Name: group.Primary()}, nil
	})

	batch := &Batch{Aggregator: aggregator, Concurrency: 1}
	games, err := batch.Run(context.Background(), []core.NameGroup{
		mustGroup(t, "a"), mustGroup(t, "b"), mustGroup(t, "c"), mustGroup(t, "d"),
	})
	require.NoError(t, err)
	require.Len(t, games, 4)
	require.Equal(t, int32(1), peak.Load())
}

func TestBatchRequiresGroups(t *testing.T) {
	batch := &Batch{Aggregator: funcAggregator(func(ctx context.Context, group core.NameGroup) (*core.Game, error) {
		return nil, errors.New("unreachable")
	})}
	_, err := batch.Run(context.Background(), nil)
	require.Error(t, err)
}

func TestBatchHonoursParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := &Batch{Aggregator: funcAggregator(func(ctx context.Context, group core.NameGroup) (*core.Game, error) {
		return &core.Game{Name: group.Primary()}, nil
	})}
	_, err := batch.Run(ctx, []core.NameGroup{mustGroup(t, "a")})
	require.ErrorIs(t, err, context.Canceled)
}
