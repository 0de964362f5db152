package output

import (
	"fmt"
	"strings"

	"github.com/gamelens/gamelens/internal/core"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatGame renders a game as Markdown.
func (f *MarkdownFormatter) FormatGame(game *core.Game) (string, error) {
	if game == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(game.Name)))
	sb.WriteString("| Source | Alias | Summary |\n")
	sb.WriteString("|--------|-------|---------|\n")

	for _, slot := range game.Slots {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			escapeMarkdownCell(slot.Label),
			escapeMarkdownCell(aliasCell(slot)),
			escapeMarkdownCell(summary(slot)),
		))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	value = strings.ReplaceAll(value, "\r\n", "<br>")
	return strings.ReplaceAll(value, "\n", "<br>")
}
