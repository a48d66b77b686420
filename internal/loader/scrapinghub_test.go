package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/pkg/transform"
)

func newScrapinghub(t *testing.T, handler http.Handler) *loader.Scrapinghub {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sh, err := loader.NewScrapinghub("test-key",
		loader.WithBaseURL(srv.URL+"/"),
		loader.WithRateLimit(100, 10),
		loader.WithClientLogger(quietLogger()),
	)
	require.NoError(t, err)
	return sh
}

func TestNewScrapinghub_NoAPIKey(t *testing.T) {
	t.Parallel()

	_, err := loader.NewScrapinghub("")
	require.ErrorIs(t, err, loader.ErrNoAPIKey)
}

func TestJobLoader_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		state      string
		items      string
		wantErr    error
		wantErrStr string
		wantItems  int
	}{
		{
			name:      "finished job",
			state:     `"finished"`,
			items:     "{\"wb_id\": \"1\", \"wb_price\": \"224\"}\n{\"wb_id\": \"2\", \"wb_price\": \"10\"}\n",
			wantItems: 2,
		},
		{
			name:    "running job",
			state:   `"running"`,
			wantErr: loader.ErrNotReady,
		},
		{
			name:       "malformed state",
			state:      `{`,
			wantErrStr: "parsing job state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mux := http.NewServeMux()
			mux.HandleFunc("/jobs/1/2/3/state", func(w http.ResponseWriter, r *http.Request) {
				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "test-key", user)
				assert.Empty(t, pass)
				_, _ = w.Write([]byte(tt.state))
			})
			mux.HandleFunc("/items/1/2/3", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "jl", r.URL.Query().Get("format"))
				_, _ = w.Write([]byte(tt.items))
			})

			sh := newScrapinghub(t, mux)
			items, err := sh.Job("1/2/3",
				loader.WithLogger(quietLogger()),
				loader.WithTransformer(transform.WildsearchWildberries()),
			).Load(context.Background())

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
			default:
				require.NoError(t, err)
				require.Len(t, items, tt.wantItems)
				assert.Equal(t, "224", items[0]["price"])
				assert.Equal(t, "1", items[0]["id"])
			}
		})
	}
}

func TestScrapinghub_APIError(t *testing.T) {
	t.Parallel()

	sh := newScrapinghub(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))

	_, err := sh.JobState(context.Background(), "1/2/3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestScrapinghub_FinishedJobs(t *testing.T) {
	t.Parallel()

	sh := newScrapinghub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobq/431698/list", r.URL.Path)
		assert.Equal(t, "finished", r.URL.Query().Get("state"))
		assert.Equal(t, "daily_categories", r.URL.Query().Get("has_tag"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte("{\"key\": \"431698/1/20\"}\n{\"key\": \"431698/1/19\"}\n"))
	}))

	keys, err := sh.FinishedJobs(context.Background(), "431698", "daily_categories", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"431698/1/20", "431698/1/19"}, keys)
}

func TestScrapinghub_LastTwo(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/jobq/7/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\"key\": \"7/1/2\"}\n{\"key\": \"7/1/1\"}\n"))
	})
	mux.HandleFunc("/items/7/1/2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\"wb_category_name\": \"new\"}\n"))
	})
	mux.HandleFunc("/items/7/1/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\"wb_category_name\": \"old\"}\n"))
	})

	sh := newScrapinghub(t, mux)
	older, newer, err := sh.LastTwo(context.Background(), "7", "daily_categories")
	require.NoError(t, err)
	require.Len(t, older, 1)
	require.Len(t, newer, 1)
	assert.Equal(t, "old", older[0]["wb_category_name"])
	assert.Equal(t, "new", newer[0]["wb_category_name"])
}

func TestScrapinghub_LastTwo_NotEnoughJobs(t *testing.T) {
	t.Parallel()

	sh := newScrapinghub(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\"key\": \"7/1/2\"}\n"))
	}))

	_, _, err := sh.LastTwo(context.Background(), "7", "daily_categories")
	require.ErrorIs(t, err, loader.ErrNotReady)
}
