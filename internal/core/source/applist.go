package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gamelens/gamelens/internal/core"
)

const defaultAppListURL = "https://api.steampowered.com/ISteamApps/GetAppList/v2/"

// App is one entry of the Steam app list.
type App struct {
	AppID uint64 `json:"appid"`
	Name  string `json:"name"`
}

// AppIndex maps normalized Steam titles to app ids. It is built once, on
// first use, from a snapshot file when SnapshotPath is set and from the
// Steam Web API otherwise. The built map is read-only and shared by every
// lookup in the run.
type AppIndex struct {
	SnapshotPath string
	ListURL      string
	Client       *http.Client
	UserAgent    string

	once sync.Once
	apps map[string][]uint64
	err  error
}

// NewAppIndexFromApps returns an index that is already built from apps.
func NewAppIndexFromApps(apps []App) *AppIndex {
	index := &AppIndex{}
	index.once.Do(func() {
		index.apps = buildAppMap(apps)
	})
	return index
}

// IDs returns candidate app ids for a title in app-list order. The first
// call builds the index; concurrent callers wait for that single build
// and all observe its error, if any. The build ignores the caller's
// cancellation since every later caller shares its result; the HTTP client
// timeout still bounds it.
func (i *AppIndex) IDs(ctx context.Context, title string) ([]uint64, error) {
	if i == nil {
		return nil, errors.New("steam app index is not configured")
	}
	i.once.Do(func() {
		i.apps, i.err = i.build(context.WithoutCancel(ctx))
	})
	if i.err != nil {
		return nil, i.err
	}
	return i.apps[normalizeTitle(title)], nil
}

// Len reports the number of distinct titles, building the index if needed.
func (i *AppIndex) Len(ctx context.Context) (int, error) {
	if _, err := i.IDs(ctx, ""); err != nil {
		return 0, err
	}
	return len(i.apps), nil
}

func (i *AppIndex) build(ctx context.Context) (map[string][]uint64, error) {
	if path := strings.TrimSpace(i.SnapshotPath); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open steam app list snapshot: %w", err)
		}
		defer file.Close() // nolint:errcheck // best-effort cleanup on read-only file

		apps, err := ReadAppSnapshot(file)
		if err != nil {
			return nil, err
		}
		return buildAppMap(apps), nil
	}

	apps, err := FetchAppList(ctx, i.Client, i.ListURL, i.UserAgent)
	if err != nil {
		return nil, err
	}
	return buildAppMap(apps), nil
}

// FetchAppList downloads the full Steam app list.
func FetchAppList(ctx context.Context, client *http.Client, listURL, agent string) ([]App, error) {
	if strings.TrimSpace(listURL) == "" {
		listURL = defaultAppListURL
	}

	var payload struct {
		AppList *struct {
			Apps []App `json:"apps"`
		} `json:"applist"`
	}
	if err := getJSON(ctx, client, core.SourceSteam, agent, listURL, &payload); err != nil {
		return nil, fmt.Errorf("fetch steam app list: %w", err)
	}
	if payload.AppList == nil {
		return nil, fmt.Errorf("fetch steam app list: %w",
			core.NewSourceError(core.SourceSteam, core.KindDeserialization, errors.New("missing applist field")))
	}
	return payload.AppList.Apps, nil
}

// ReadAppSnapshot decodes a snapshot written by WriteAppSnapshot.
func ReadAppSnapshot(r io.Reader) ([]App, error) {
	var apps []App
	if err := json.NewDecoder(r).Decode(&apps); err != nil {
		return nil, fmt.Errorf("decode steam app list snapshot: %w",
			core.NewSourceError(core.SourceSteam, core.KindDeserialization, err))
	}
	return apps, nil
}

// WriteAppSnapshot encodes apps as a JSON array of {appid, name}.
func WriteAppSnapshot(w io.Writer, apps []App) error {
	if apps == nil {
		apps = []App{}
	}
	return json.NewEncoder(w).Encode(apps)
}

func buildAppMap(apps []App) map[string][]uint64 {
	index := make(map[string][]uint64, len(apps))
	for _, app := range apps {
		key := normalizeTitle(app.Name)
		index[key] = append(index[key], app.AppID)
	}
	return index
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
