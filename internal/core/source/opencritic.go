package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gamelens/gamelens/internal/core"
)

const defaultOpenCriticURL = "https://api.opencritic.com/api/"

// OpenCriticSource looks games up on OpenCritic. Only search hits with a
// zero edit distance are accepted.
type OpenCriticSource struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// OpenCriticRecord is the OpenCritic view of a game.
type OpenCriticRecord struct {
	ID                 uint64  `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	Tier               string  `json:"tier" yaml:"tier"`
	Percentile         int     `json:"percentile" yaml:"percentile"`
	PercentRecommended float64 `json:"percent_recommended" yaml:"percent_recommended"`
	TopCriticScore     float64 `json:"top_critic_score" yaml:"top_critic_score"`
}

func (r *OpenCriticRecord) Source() core.SourceKind { return core.SourceOpenCritic }

func (r *OpenCriticRecord) DisplayName() string { return r.Name }

// Summary converts the percentile into a "top N%" rank.
func (r *OpenCriticRecord) Summary() string {
	return fmt.Sprintf("%s (top %d%%, %.2f top critic average, %.2f%% critics recommend)",
		r.Tier, 100-r.Percentile, r.TopCriticScore, r.PercentRecommended)
}

// Every field is required; pointers tell an absent field from a zero value.
type openCriticSearchResult struct {
	ID   *uint64  `json:"id"`
	Name *string  `json:"name"`
	Dist *float64 `json:"dist"`
}

func (r openCriticSearchResult) validate() error {
	return checkRequired(core.SourceOpenCritic, "search result",
		requiredField{"id", r.ID != nil},
		requiredField{"name", r.Name != nil},
		requiredField{"dist", r.Dist != nil},
	)
}

type openCriticGame struct {
	Tier               *string  `json:"tier"`
	Percentile         *int     `json:"percentile"`
	PercentRecommended *float64 `json:"percentRecommended"`
	TopCriticScore     *float64 `json:"topCriticScore"`
}

func (g openCriticGame) validate(id uint64) error {
	return checkRequired(core.SourceOpenCritic, fmt.Sprintf("game %d", id),
		requiredField{"tier", g.Tier != nil},
		requiredField{"percentile", g.Percentile != nil},
		requiredField{"percentRecommended", g.PercentRecommended != nil},
		requiredField{"topCriticScore", g.TopCriticScore != nil},
	)
}

// Kind returns the source kind.
func (s *OpenCriticSource) Kind() core.SourceKind { return core.SourceOpenCritic }

// Label returns the report label.
func (s *OpenCriticSource) Label() string { return "Opencritic" }

// Endpoint reports the API base used for provenance.
func (s *OpenCriticSource) Endpoint() string { return s.baseURL().String() }

// Lookup searches for the alias and fetches the first exact match.
func (s *OpenCriticSource) Lookup(ctx context.Context, alias string) (core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("opencritic source is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	base := s.baseURL()

	var results []openCriticSearchResult
	searchURL := endpoint(base, url.Values{"criteria": {alias}}, "game", "search")
	if err := getJSON(ctx, s.Client, core.SourceOpenCritic, s.UserAgent, searchURL, &results); err != nil {
		return nil, err
	}

	for _, result := range results {
		if err := result.validate(); err != nil {
			return nil, err
		}
	}

	for _, result := range results {
		if *result.Dist != 0 {
			continue
		}

		id := *result.ID
		var game openCriticGame
		gameURL := endpoint(base, nil, "game", strconv.FormatUint(id, 10))
		if err := getJSON(ctx, s.Client, core.SourceOpenCritic, s.UserAgent, gameURL, &game); err != nil {
			return nil, err
		}
		if err := game.validate(id); err != nil {
			return nil, err
		}

		return &OpenCriticRecord{
			ID:                 id,
			Name:               *result.Name,
			Tier:               *game.Tier,
			Percentile:         *game.Percentile,
			PercentRecommended: *game.PercentRecommended,
			TopCriticScore:     *game.TopCriticScore,
		}, nil
	}

	return nil, core.ErrNotFound
}

func (s *OpenCriticSource) baseURL() *url.URL {
	return parseBase(s.BaseURL, defaultOpenCriticURL)
}
