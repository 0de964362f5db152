package core

import (
	"errors"
	"strings"
)

// AliasSeparator splits one CLI argument into aliases of the same game.
const AliasSeparator = "|"

// NameGroup is an ordered, non-empty set of aliases for one logical game.
// Aliases are trimmed and lowercased on construction.
type NameGroup struct {
	aliases []string
}

// NewNameGroup builds a group from already split aliases. Blank aliases
// are dropped; the group must keep at least one.
func NewNameGroup(aliases ...string) (NameGroup, error) {
	normalized := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		value := NormalizeAlias(alias)
		if value == "" {
			continue
		}
		normalized = append(normalized, value)
	}
	if len(normalized) == 0 {
		return NameGroup{}, errors.New("name group requires at least one alias")
	}
	return NameGroup{aliases: normalized}, nil
}

// ParseNameGroup splits raw on AliasSeparator.
func ParseNameGroup(raw string) (NameGroup, error) {
	return NewNameGroup(strings.Split(raw, AliasSeparator)...)
}

// NormalizeAlias applies the case normalization used for every lookup.
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// Aliases returns a copy of the aliases in declared order.
func (g NameGroup) Aliases() []string {
	out := make([]string, len(g.aliases))
	copy(out, g.aliases)
	return out
}

// Len returns the number of aliases.
func (g NameGroup) Len() int {
	return len(g.aliases)
}

// Primary returns the first alias, or "" for the zero group.
func (g NameGroup) Primary() string {
	if len(g.aliases) == 0 {
		return ""
	}
	return g.aliases[0]
}

// String joins the aliases back with AliasSeparator.
func (g NameGroup) String() string {
	return strings.Join(g.aliases, AliasSeparator)
}
