package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	"github.com/wondersell/seller-stats/pkg/transform"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fx, err := loadFixture(filepath.Join("testdata", "jobs.json"))
	require.NoError(t, err)
	srv := httptest.NewServer(newMux(testLogger(), fx))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, auth bool) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, http.NoBody)
	require.NoError(t, err)
	if auth {
		req.SetBasicAuth("test-key", "")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	fx, err := loadFixture(filepath.Join("testdata", "jobs.json"))
	require.NoError(t, err)
	require.NotEmpty(t, fx.Jobs)
	for _, j := range fx.Jobs {
		assert.NotEmpty(t, j.Key)
		assert.NotEmpty(t, j.State, j.Key)
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	t.Parallel()

	_, err := loadFixture(filepath.Join("testdata", "nope.json"))
	require.ErrorContains(t, err, "reading fixture")
}

func TestHandlers(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		auth       bool
		wantStatus int
		wantLines  int
	}{
		{name: "no auth", path: "/jobs/414324/1/737/state", wantStatus: http.StatusUnauthorized},
		{name: "state", path: "/jobs/414324/1/737/state", auth: true, wantStatus: http.StatusOK, wantLines: 1},
		{name: "unknown job state", path: "/jobs/1/1/1/state", auth: true, wantStatus: http.StatusNotFound},
		{name: "items", path: "/items/414324/1/737?format=jl", auth: true, wantStatus: http.StatusOK, wantLines: 3},
		{name: "unknown job items", path: "/items/1/1/1", auth: true, wantStatus: http.StatusNotFound},
		{name: "list all", path: "/jobq/414324/list", auth: true, wantStatus: http.StatusOK, wantLines: 4},
		{name: "list finished", path: "/jobq/414324/list?state=finished", auth: true, wantStatus: http.StatusOK, wantLines: 3},
		{name: "list by tag", path: "/jobq/414324/list?state=finished&has_tag=categories&count=1", auth: true, wantStatus: http.StatusOK, wantLines: 1},
		{name: "list other project", path: "/jobq/999/list", auth: true, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := get(t, srv, tt.path, tt.auth)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var lines int
			sc := bufio.NewScanner(resp.Body)
			for sc.Scan() {
				assert.True(t, json.Valid(sc.Bytes()), "line %q", sc.Text())
				lines++
			}
			require.NoError(t, sc.Err())
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestListHandler_NewestFirst(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := get(t, srv, "/jobq/414324/list?state=finished&has_tag=categories&count=2", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dec := json.NewDecoder(resp.Body)
	var keys []string
	for dec.More() {
		var s jobSummary
		require.NoError(t, dec.Decode(&s))
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"414324/1/737", "414324/1/735"}, keys)
}

func TestScrapinghubClient_CategoryDiff(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	sh, err := loader.NewScrapinghub("test-key",
		loader.WithBaseURL(srv.URL),
		loader.WithClientLogger(testLogger()),
	)
	require.NoError(t, err)

	older, newer, err := sh.LastTwo(context.Background(), "414324", "categories")
	require.NoError(t, err)
	assert.Len(t, older, 2)
	assert.Len(t, newer, 3)

	svc := report.NewService(report.WithLogger(testLogger()))
	updates, err := svc.Diff(older, newer)
	require.NoError(t, err)
	added, err := updates.Count(catdiff.KindAdded)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	removed, err := updates.Count(catdiff.KindRemoved)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestScrapinghubClient_JobLoader(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	sh, err := loader.NewScrapinghub("test-key", loader.WithBaseURL(srv.URL))
	require.NoError(t, err)

	items, err := sh.Job("414324/2/11",
		loader.WithTransformer(transform.WildsearchWildberries()),
		loader.WithLogger(testLogger()),
	).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "12345", items[0]["id"])

	_, err = sh.Job("414324/2/12", loader.WithLogger(testLogger())).Load(context.Background())
	require.ErrorIs(t, err, loader.ErrNotReady)
}
