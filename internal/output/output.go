package output

import (
	"fmt"
	"strings"

	"github.com/gamelens/gamelens/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// NotFound marks a source with no data for a game.
const NotFound = "Not found"

// Formatter renders one aggregated game.
type Formatter interface {
	FormatGame(game *core.Game) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatTable):
		return FormatTable, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a per-game formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatTable:
		return &TableFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// FormatGames renders every game in order. Structured formats emit a single
// document; text formats separate games with a blank line.
func FormatGames(format Format, games []*core.Game) (string, error) {
	switch format {
	case FormatJSON:
		return (&JSONFormatter{Indent: true}).FormatGames(games)
	case FormatYAML:
		return (&YAMLFormatter{}).FormatGames(games)
	}

	formatter := NewFormatter(format)
	rendered := make([]string, 0, len(games))
	for _, game := range games {
		if game == nil {
			continue
		}
		value, err := formatter.FormatGame(game)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		rendered = append(rendered, strings.TrimRight(value, "\n"))
	}

	return strings.Join(rendered, "\n\n"), nil
}

// NoAlias fills the alias column of tabular formats for not-found slots.
const NoAlias = "-"

// aliasCell returns the alias that filled the slot or NoAlias.
func aliasCell(slot core.Slot) string {
	if !slot.Found() || slot.Alias == "" {
		return NoAlias
	}
	return slot.Alias
}

// summary returns the slot's rendered record or the not-found marker.
func summary(slot core.Slot) string {
	if !slot.Found() {
		return NotFound
	}
	return slot.Record.Summary()
}

// gameView is the structured shape shared by the JSON and YAML formats.
type gameView struct {
	Name    string     `json:"name" yaml:"name"`
	Aliases []string   `json:"aliases" yaml:"aliases"`
	Sources []slotView `json:"sources" yaml:"sources"`
}

type slotView struct {
	Source     core.SourceKind  `json:"source" yaml:"source"`
	Label      string           `json:"label" yaml:"label"`
	Found      bool             `json:"found" yaml:"found"`
	Summary    string           `json:"summary" yaml:"summary"`
	Alias      string           `json:"alias,omitempty" yaml:"alias,omitempty"`
	Data       core.Record      `json:"data,omitempty" yaml:"data,omitempty"`
	Provenance *core.Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

func newGameView(game *core.Game) gameView {
	view := gameView{
		Name:    game.Name,
		Aliases: game.Aliases,
		Sources: make([]slotView, 0, len(game.Slots)),
	}
	for _, slot := range game.Slots {
		view.Sources = append(view.Sources, slotView{
			Source:     slot.Source,
			Label:      slot.Label,
			Found:      slot.Found(),
			Summary:    summary(slot),
			Alias:      slot.Alias,
			Data:       slot.Record,
			Provenance: slot.Provenance,
		})
	}
	return view
}

func newGameViews(games []*core.Game) []gameView {
	views := make([]gameView, 0, len(games))
	for _, game := range games {
		if game == nil {
			continue
		}
		views = append(views, newGameView(game))
	}
	return views
}
