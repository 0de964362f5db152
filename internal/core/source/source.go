// Package source implements lookups against the external game-data
// providers. Each source is independent: it resolves one alias to at most
// one record and knows nothing about the others.
package source

import (
	"context"

	"github.com/gamelens/gamelens/internal/core"
)

// Source is the contract every provider adapter implements.
type Source interface {
	// Lookup resolves a normalized alias. A miss returns an error matching
	// core.ErrNotFound; any other error is a hard failure.
	Lookup(ctx context.Context, alias string) (core.Record, error)

	// Kind returns the provider identifier.
	Kind() core.SourceKind

	// Label is the human-readable provider name used in reports.
	Label() string
}

var (
	_ Source = (*SteamSource)(nil)
	_ Source = (*OpenCriticSource)(nil)
	_ Source = (*HowLongToBeatSource)(nil)
)
