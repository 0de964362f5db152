package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gamelens/gamelens/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatGame renders a game as a table titled with its name.
func (f *TableFormatter) FormatGame(game *core.Game) (string, error) {
	if game == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(game.Name)
	t.AppendHeader(table.Row{"Source", "Alias", "Summary"})

	for _, slot := range game.Slots {
		t.AppendRow(table.Row{slot.Label, aliasCell(slot), summary(slot)})
	}

	t.AppendFooter(table.Row{
		"",
		"",
		fmt.Sprintf("%d/%d sources found", game.Found(), len(game.Slots)),
	})

	return t.Render(), nil
}
