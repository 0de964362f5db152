package output

import (
	"strings"

	"github.com/gamelens/gamelens/internal/core"
)

// TextFormatter renders the plain report: the game name, then one
// "<Label>: <summary>" line per source.
type TextFormatter struct{}

// FormatGame renders a game as plain text.
func (f *TextFormatter) FormatGame(game *core.Game) (string, error) {
	if game == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(game.Name)
	sb.WriteString("\n")
	for _, slot := range game.Slots {
		sb.WriteString(slot.Label)
		sb.WriteString(": ")
		sb.WriteString(summary(slot))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
