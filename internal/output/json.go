package output

import (
	"encoding/json"

	"github.com/gamelens/gamelens/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatGame renders one game as a JSON object.
func (f *JSONFormatter) FormatGame(game *core.Game) (string, error) {
	if game == nil {
		return "", nil
	}
	return f.marshal(newGameView(game))
}

// FormatGames renders all games as one JSON array.
func (f *JSONFormatter) FormatGames(games []*core.Game) (string, error) {
	return f.marshal(newGameViews(games))
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
