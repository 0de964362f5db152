package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gamelens/gamelens/internal/core"
)

// Source describes one game-data provider.
type Source interface {
	Lookup(ctx context.Context, alias string) (core.Record, error)
	Kind() core.SourceKind
	Label() string
}

// endpointer is implemented by sources that can report the server they hit.
type endpointer interface {
	Endpoint() string
}

// Outcome is the result of one (alias, source) lookup.
type Outcome struct {
	Record     core.Record
	Err        error
	Provenance core.Provenance
}

// Aggregator merges every source's answer for one name group. Sources are
// listed in display-name priority order.
type Aggregator struct {
	Sources []Source
	Logger  *logging.Logger
	Clock   func() time.Time
}

// Aggregate looks every alias up in every source concurrently and merges
// the outcomes. The first hard error cancels the remaining lookups and is
// returned. A group no source recognises fails with core.ErrNotFound.
func (a *Aggregator) Aggregate(ctx context.Context, group core.NameGroup) (*core.Game, error) {
	if a == nil || len(a.Sources) == 0 {
		return nil, errors.New("aggregator has no sources")
	}
	if group.Len() == 0 {
		return nil, errors.New("name group is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	aliases := group.Aliases()
	outcomes := make([][]Outcome, len(aliases))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	setErr := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, alias := range aliases {
		outcomes[i] = make([]Outcome, len(a.Sources))
		for j, src := range a.Sources {
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcome := a.lookup(ctx, src, alias)
				outcomes[i][j] = outcome
				if outcome.Err != nil && !core.IsNotFound(outcome.Err) {
					setErr(outcome.Err)
				}
			}()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	game, err := Merge(group, a.Sources, outcomes)
	if err != nil {
		return nil, err
	}
	game.CompletedAt = a.now()
	return game, nil
}

func (a *Aggregator) lookup(ctx context.Context, src Source, alias string) Outcome {
	requestedAt := a.now()
	provenance := core.Provenance{
		LookupID:    uuid.New().String(),
		RequestedAt: requestedAt,
	}
	if e, ok := src.(endpointer); ok {
		provenance.Server = e.Endpoint()
	}

	record, err := src.Lookup(ctx, alias)
	provenance.ResolvedAt = a.now()

	if a.Logger != nil {
		fields := []zap.Field{
			zap.String("source", string(src.Kind())),
			zap.String("alias", alias),
			zap.String("lookup_id", provenance.LookupID),
			zap.Duration("duration", provenance.ResolvedAt.Sub(requestedAt)),
		}
		switch {
		case err == nil:
			a.Logger.Debug("Lookup found", fields...)
		case core.IsNotFound(err):
			a.Logger.Debug("Lookup not found", fields...)
		default:
			a.Logger.Debug("Lookup failed", append(fields, zap.Error(err))...)
		}
	}

	if err == nil && record == nil {
		err = core.ErrNotFound
	}
	return Outcome{Record: record, Err: err, Provenance: provenance}
}

func (a *Aggregator) now() time.Time {
	if a != nil && a.Clock != nil {
		return a.Clock()
	}
	return time.Now().UTC()
}

// Merge folds alias-ordered outcomes into one game. outcomes[i][j] is the
// result of sources[j] for the i-th alias. For each source the first alias
// with a record wins; later aliases never replace it. Folding stops once
// every slot is filled. The first hard error in (alias, source) order is
// returned as is.
func Merge(group core.NameGroup, sources []Source, outcomes [][]Outcome) (*core.Game, error) {
	aliases := group.Aliases()
	slots := make([]core.Slot, len(sources))
	for j, src := range sources {
		slots[j] = core.Slot{Source: src.Kind(), Label: src.Label()}
	}

	filled := 0
	for i, row := range outcomes {
		if filled == len(slots) {
			break
		}
		for j, outcome := range row {
			if j >= len(slots) {
				break
			}
			if outcome.Err != nil {
				if core.IsNotFound(outcome.Err) {
					continue
				}
				return nil, outcome.Err
			}
			if outcome.Record == nil || slots[j].Found() {
				continue
			}
			provenance := outcome.Provenance
			slots[j].Record = outcome.Record
			slots[j].Provenance = &provenance
			if i < len(aliases) {
				slots[j].Alias = aliases[i]
			}
			filled++
		}
	}

	if filled == 0 {
		return nil, &core.GroupNotFoundError{Group: group}
	}

	return &core.Game{
		Name:    ResolveName(group, slots),
		Aliases: aliases,
		Slots:   slots,
	}, nil
}

// ResolveName picks the first non-empty record name in slot order and
// falls back to the group's first alias.
func ResolveName(group core.NameGroup, slots []core.Slot) string {
	for _, slot := range slots {
		if !slot.Found() {
			continue
		}
		if name := slot.Record.DisplayName(); name != "" {
			return name
		}
	}
	return group.Primary()
}
