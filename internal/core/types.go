package core

import "time"

// SourceKind identifies one external game-data provider.
type SourceKind string

const (
	SourceSteam         SourceKind = "steam"
	SourceOpenCritic    SourceKind = "opencritic"
	SourceHowLongToBeat SourceKind = "howlongtobeat"
)

// Record is the data one source returned for a game.
type Record interface {
	// Source reports which provider produced the record.
	Source() SourceKind

	// DisplayName is the provider's title for the game, possibly empty.
	DisplayName() string

	// Summary renders the provider-specific details as text.
	Summary() string
}

// Provenance captures metadata about how a slot was resolved.
type Provenance struct {
	LookupID    string    `json:"lookup_id" yaml:"lookup_id"`
	RequestedAt time.Time `json:"requested_at" yaml:"requested_at"`
	ResolvedAt  time.Time `json:"resolved_at" yaml:"resolved_at"`
	Server      string    `json:"server,omitempty" yaml:"server,omitempty"`
}

// Slot holds the outcome of one source for an aggregated game.
type Slot struct {
	Source     SourceKind  `json:"source" yaml:"source"`
	Label      string      `json:"label" yaml:"label"`
	Record     Record      `json:"record,omitempty" yaml:"record,omitempty"`
	Alias      string      `json:"alias,omitempty" yaml:"alias,omitempty"`
	Provenance *Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// Found reports whether the slot holds a record.
func (s Slot) Found() bool {
	return s.Record != nil
}

// Game is the merged view of every source for one name group.
type Game struct {
	Name        string    `json:"name" yaml:"name"`
	Aliases     []string  `json:"aliases" yaml:"aliases"`
	Slots       []Slot    `json:"slots" yaml:"slots"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// Slot returns the slot for a source, if the game tracks it.
func (g *Game) Slot(kind SourceKind) (Slot, bool) {
	if g == nil {
		return Slot{}, false
	}
	for _, slot := range g.Slots {
		if slot.Source == kind {
			return slot, true
		}
	}
	return Slot{}, false
}

// Found counts the populated slots.
func (g *Game) Found() int {
	if g == nil {
		return 0
	}
	count := 0
	for _, slot := range g.Slots {
		if slot.Found() {
			count++
		}
	}
	return count
}
