package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamelens/gamelens/internal/core"
)

func TestAppIndexGroupsNormalizedTitles(t *testing.T) {
	index := NewAppIndexFromApps([]App{
		{AppID: 620, Name: "Portal 2"},
		{AppID: 10, Name: "Counter-Strike"},
		{AppID: 621, Name: " portal 2"},
	})

	ids, err := index.IDs(context.Background(), "portal 2")
	require.NoError(t, err)
	require.Equal(t, []uint64{620, 621}, ids)

	ids, err = index.IDs(context.Background(), "half-life 3")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAppIndexBuildsOnceUnderConcurrency(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"applist":{"apps":[{"appid":504230,"name":"Celeste"}]}}`))
	}))
	defer server.Close()

	index := &AppIndex{Client: server.Client(), ListURL: server.URL}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := index.IDs(context.Background(), "celeste")
			assert.NoError(t, err)
			assert.Equal(t, []uint64{504230}, ids)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), hits.Load())
}

func TestAppIndexBuildFailureIsSticky(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	index := &AppIndex{Client: server.Client(), ListURL: server.URL}

	_, err := index.IDs(context.Background(), "celeste")
	require.Error(t, err)
	require.Equal(t, core.KindTransport, core.KindOf(err))

	_, err = index.IDs(context.Background(), "portal 2")
	require.Error(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestAppIndexMalformedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"apps":[]}`))
	}))
	defer server.Close()

	index := &AppIndex{Client: server.Client(), ListURL: server.URL}
	_, err := index.IDs(context.Background(), "celeste")
	require.Equal(t, core.KindDeserialization, core.KindOf(err))
}

func TestAppIndexFromSnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppSnapshot(&buf, []App{{AppID: 400, Name: "Portal"}}))

	path := filepath.Join(t.TempDir(), "steam_app_map.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	index := &AppIndex{SnapshotPath: path}
	ids, err := index.IDs(context.Background(), "portal")
	require.NoError(t, err)
	require.Equal(t, []uint64{400}, ids)

	count, err := index.Len(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAppIndexMissingSnapshot(t *testing.T) {
	index := &AppIndex{SnapshotPath: filepath.Join(t.TempDir(), "missing.json")}
	_, err := index.IDs(context.Background(), "portal")
	require.Error(t, err)
}

func TestReadAppSnapshotRejectsGarbage(t *testing.T) {
	_, err := ReadAppSnapshot(bytes.NewBufferString("not json"))
	require.Equal(t, core.KindDeserialization, core.KindOf(err))
}

func TestWriteAppSnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppSnapshot(&buf, nil))
	require.Equal(t, "[]\n", buf.String())
}

func TestAppIndexBuildOutlivesCancelledCaller(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"applist":{"apps":[{"appid":504230,"name":"Celeste"}]}}`))
	}))
	t.Cleanup(server.Close)

	index := &AppIndex{ListURL: server.URL, Client: server.Client()}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ids, err := index.IDs(cancelled, "celeste")
	require.NoError(t, err)
	require.Equal(t, []uint64{504230}, ids)

	ids, err = index.IDs(context.Background(), "celeste")
	require.NoError(t, err)
	require.Equal(t, []uint64{504230}, ids)
	require.Equal(t, int32(1), hits.Load())
}
