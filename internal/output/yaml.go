package output

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gamelens/gamelens/internal/core"
)

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

// FormatGame renders one game as a YAML mapping.
func (f *YAMLFormatter) FormatGame(game *core.Game) (string, error) {
	if game == nil {
		return "", nil
	}
	return marshalYAML(newGameView(game))
}

// FormatGames renders all games as one YAML sequence.
func (f *YAMLFormatter) FormatGames(games []*core.Game) (string, error) {
	return marshalYAML(newGameViews(games))
}

func marshalYAML(value any) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
