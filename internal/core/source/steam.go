package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/gamelens/gamelens/internal/core"
)

const defaultSteamStoreURL = "https://store.steampowered.com/"

// SteamSource looks games up in the Steam store and its review summary.
type SteamSource struct {
	Index     *AppIndex
	Client    *http.Client
	StoreURL  string
	UserAgent string
}

// SteamRecord is the Steam view of a game.
type SteamRecord struct {
	AppID           uint64       `json:"app_id" yaml:"app_id"`
	Name            string       `json:"name" yaml:"name"`
	Reviews         SteamReviews `json:"reviews" yaml:"reviews"`
	MetacriticScore *int         `json:"metacritic_score,omitempty" yaml:"metacritic_score,omitempty"`
}

// SteamReviews summarizes user reviews across all languages.
type SteamReviews struct {
	Description string `json:"description" yaml:"description"`
	Positive    uint64 `json:"positive" yaml:"positive"`
	Negative    uint64 `json:"negative" yaml:"negative"`
	Total       uint64 `json:"total" yaml:"total"`
}

func (r *SteamRecord) Source() core.SourceKind { return core.SourceSteam }

func (r *SteamRecord) DisplayName() string { return r.Name }

func (r *SteamRecord) Summary() string {
	summary := r.Reviews.String()
	if r.MetacriticScore != nil {
		summary += fmt.Sprintf("\nMetacritic: %d%%", *r.MetacriticScore)
	}
	return summary
}

func (r SteamReviews) String() string {
	percent := 0.0
	if r.Total > 0 {
		percent = float64(r.Positive) / float64(r.Total) * 100
	}
	return fmt.Sprintf("%s (%.2f%% of %d)", r.Description, percent, r.Total)
}

type steamAppDetails struct {
	Success bool          `json:"success"`
	Data    *steamAppData `json:"data"`
}

// Type and Name are required; metacritic is optional but needs a score
// when present.
type steamAppData struct {
	Type       *string `json:"type"`
	Name       *string `json:"name"`
	Metacritic *struct {
		Score *int `json:"score"`
	} `json:"metacritic"`
}

func (d *steamAppData) validate(key string) error {
	fields := []requiredField{
		{"type", d.Type != nil},
		{"name", d.Name != nil},
	}
	if d.Metacritic != nil {
		fields = append(fields, requiredField{"metacritic.score", d.Metacritic.Score != nil})
	}
	return checkRequired(core.SourceSteam, "appdetails "+key, fields...)
}

type steamAppReviews struct {
	Success      int `json:"success"`
	QuerySummary *struct {
		ReviewScoreDesc *string `json:"review_score_desc"`
		TotalPositive   *uint64 `json:"total_positive"`
		TotalNegative   *uint64 `json:"total_negative"`
		TotalReviews    *uint64 `json:"total_reviews"`
	} `json:"query_summary"`
}

// Kind returns the source kind.
func (s *SteamSource) Kind() core.SourceKind { return core.SourceSteam }

// Label returns the report label.
func (s *SteamSource) Label() string { return "Steam" }

// Endpoint reports the store host used for provenance.
func (s *SteamSource) Endpoint() string { return s.storeURL().String() }

// Lookup walks the app ids listed for the alias in order and returns the
// first one whose store entry is a game. DLC, soundtracks and other
// non-game entries are skipped.
func (s *SteamSource) Lookup(ctx context.Context, alias string) (core.Record, error) {
	if s == nil || s.Index == nil {
		return nil, fmt.Errorf("steam source is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ids, err := s.Index.IDs(ctx, alias)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		var (
			details *steamAppData
			reviews SteamReviews
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			details, err = s.appDetails(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			reviews, err = s.appReviews(gctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if *details.Type != "game" {
			continue
		}

		record := &SteamRecord{
			AppID:   id,
			Name:    *details.Name,
			Reviews: reviews,
		}
		if details.Metacritic != nil {
			record.MetacriticScore = details.Metacritic.Score
		}
		return record, nil
	}

	return nil, core.ErrNotFound
}

func (s *SteamSource) appDetails(ctx context.Context, id uint64) (*steamAppData, error) {
	key := strconv.FormatUint(id, 10)
	reqURL := endpoint(s.storeURL(), url.Values{"appids": {key}}, "api", "appdetails")

	var payload map[string]json.RawMessage
	if err := getJSON(ctx, s.Client, core.SourceSteam, s.UserAgent, reqURL, &payload); err != nil {
		return nil, err
	}

	raw, ok := payload[key]
	if !ok {
		return nil, core.NewSourceError(core.SourceSteam, core.KindDeserialization, fmt.Errorf("appdetails response missing app %s", key))
	}

	var details steamAppDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, core.NewSourceError(core.SourceSteam, core.KindDeserialization, err)
	}
	if !details.Success {
		return nil, core.NewSourceError(core.SourceSteam, core.KindAPIUnsuccessful, fmt.Errorf("appdetails %s: %w", key, core.ErrAPIUnsuccessful))
	}
	if details.Data == nil {
		return nil, core.NewSourceError(core.SourceSteam, core.KindDeserialization, fmt.Errorf("appdetails %s: missing data", key))
	}
	if err := details.Data.validate(key); err != nil {
		return nil, err
	}
	return details.Data, nil
}

func (s *SteamSource) appReviews(ctx context.Context, id uint64) (SteamReviews, error) {
	query := url.Values{
		"json":         {"1"},
		"language":     {"all"},
		"num_per_page": {"0"},
	}
	reqURL := endpoint(s.storeURL(), query, "appreviews", strconv.FormatUint(id, 10))

	var payload steamAppReviews
	if err := getJSON(ctx, s.Client, core.SourceSteam, s.UserAgent, reqURL, &payload); err != nil {
		return SteamReviews{}, err
	}
	if payload.Success != 1 {
		return SteamReviews{}, core.NewSourceError(core.SourceSteam, core.KindAPIUnsuccessful, fmt.Errorf("appreviews %d: %w", id, core.ErrAPIUnsuccessful))
	}
	if payload.QuerySummary == nil {
		return SteamReviews{}, core.NewSourceError(core.SourceSteam, core.KindDeserialization, fmt.Errorf("appreviews %d: missing query_summary", id))
	}

	summary := payload.QuerySummary
	if err := checkRequired(core.SourceSteam, fmt.Sprintf("appreviews %d query_summary", id),
		requiredField{"review_score_desc", summary.ReviewScoreDesc != nil},
		requiredField{"total_positive", summary.TotalPositive != nil},
		requiredField{"total_negative", summary.TotalNegative != nil},
		requiredField{"total_reviews", summary.TotalReviews != nil},
	); err != nil {
		return SteamReviews{}, err
	}

	return SteamReviews{
		Description: *summary.ReviewScoreDesc,
		Positive:    *summary.TotalPositive,
		Negative:    *summary.TotalNegative,
		Total:       *summary.TotalReviews,
	}, nil
}

func (s *SteamSource) storeURL() *url.URL {
	return parseBase(s.StoreURL, defaultSteamStoreURL)
}
