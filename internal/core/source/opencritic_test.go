package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamelens/gamelens/internal/core"
)

func newOpenCriticServer(t *testing.T, search string, games map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/game/search" {
			if r.URL.Query().Get("criteria") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(search))
			return
		}
		body, ok := games[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenCriticLookupExactMatch(t *testing.T) {
	search := `[{"id":1,"name":"Portal","dist":0.2},{"id":2,"name":"Portal 2","dist":0},{"id":3,"name":"Portal 2","dist":0}]`
	server := newOpenCriticServer(t, search, map[string]string{
		"/api/game/2": `{"tier":"Mighty","percentile":98,"percentRecommended":99.5,"topCriticScore":95.123}`,
	})

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	record, err := source.Lookup(context.Background(), "portal 2")
	require.NoError(t, err)

	oc, ok := record.(*OpenCriticRecord)
	require.True(t, ok)
	require.Equal(t, uint64(2), oc.ID)
	require.Equal(t, "Portal 2", oc.DisplayName())
	require.Equal(t, "Mighty (top 2%, 95.12 top critic average, 99.50% critics recommend)", oc.Summary())
}

func TestOpenCriticLookupNoExactMatch(t *testing.T) {
	server := newOpenCriticServer(t, `[{"id":1,"name":"Portal","dist":0.4}]`, nil)

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	_, err := source.Lookup(context.Background(), "portal 2")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestOpenCriticLookupEmptySearch(t *testing.T) {
	server := newOpenCriticServer(t, `[]`, nil)

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	_, err := source.Lookup(context.Background(), "nonexistent-game-xyz")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestOpenCriticLookupDetailFailure(t *testing.T) {
	server := newOpenCriticServer(t, `[{"id":9,"name":"Celeste","dist":0}]`, nil)

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	_, err := source.Lookup(context.Background(), "celeste")
	require.Error(t, err)
	require.Equal(t, core.KindTransport, core.KindOf(err))
}

func TestOpenCriticLookupMalformedSearch(t *testing.T) {
	server := newOpenCriticServer(t, `{"error":"nope"}`, nil)

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	_, err := source.Lookup(context.Background(), "celeste")
	require.Equal(t, core.KindDeserialization, core.KindOf(err))
}

func TestOpenCriticLookupRejectsSearchResultWithoutDist(t *testing.T) {
	server := newOpenCriticServer(t, `[{"id":7,"name":"Portal"}]`, map[string]string{
		"/api/game/7": `{"tier":"Mighty","percentile":90,"percentRecommended":91,"topCriticScore":88}`,
	})

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	record, err := source.Lookup(context.Background(), "portal 2")
	require.Nil(t, record)
	require.Equal(t, core.KindDeserialization, core.KindOf(err))
	require.ErrorContains(t, err, "dist")
}

func TestOpenCriticLookupRejectsIncompleteSearchResult(t *testing.T) {
	// Any malformed entry fails the search, even one after an exact match.
	search := `[{"id":2,"name":"Portal 2","dist":0},{"name":"Portal","dist":0.3}]`
	server := newOpenCriticServer(t, search, map[string]string{
		"/api/game/2": `{"tier":"Mighty","percentile":98,"percentRecommended":99,"topCriticScore":95}`,
	})

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	_, err := source.Lookup(context.Background(), "portal 2")
	require.Equal(t, core.KindDeserialization, core.KindOf(err))
	require.ErrorContains(t, err, "id")
}

func TestOpenCriticLookupRejectsIncompleteGame(t *testing.T) {
	server := newOpenCriticServer(t, `[{"id":7,"name":"Portal","dist":0}]`, map[string]string{
		"/api/game/7": `{"tier":"Mighty","percentile":90}`,
	})

	source := &OpenCriticSource{Client: server.Client(), BaseURL: server.URL + "/api/"}
	record, err := source.Lookup(context.Background(), "portal")
	require.Nil(t, record)
	require.Equal(t, core.KindDeserialization, core.KindOf(err))
	require.ErrorContains(t, err, "percentRecommended, topCriticScore")
}
