// Package main implements a mock Scrapinghub storage API for local
// development. It serves job states, job lists and stored items from a JSON
// fixture so crawls can be replayed without a real API key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// fixture is the on-disk description of the jobs the server knows about.
// Jobs are listed newest first.
type fixture struct {
	Jobs []job `json:"jobs"`
}

type job struct {
	Key   string            `json:"key"`
	State string            `json:"state"`
	Tags  []string          `json:"tags"`
	Items []json.RawMessage `json:"items"`
}

// jobSummary is one line of a /jobq list response.
type jobSummary struct {
	Key   string   `json:"key"`
	State string   `json:"state"`
	Tags  []string `json:"tags"`
	Items int      `json:"items"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/jobs.json", "path to jobs fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fx, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "jobs", len(fx.Jobs))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock scrapinghub server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newMux(logger, fx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fx, nil
}

func (fx *fixture) find(key string) (*job, bool) {
	for i := range fx.Jobs {
		if fx.Jobs[i].Key == key {
			return &fx.Jobs[i], true
		}
	}
	return nil, false
}

func newMux(logger *slog.Logger, fx *fixture) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs/{project}/{spider}/{job}/state", stateHandler(logger, fx))
	mux.HandleFunc("GET /items/{project}/{spider}/{job}", itemsHandler(logger, fx))
	mux.HandleFunc("GET /jobq/{project}/list", listHandler(logger, fx))
	return requestLogger(logger, requireAPIKey(mux))
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// requireAPIKey rejects requests without a basic auth user. The key itself
// is not checked.
func requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _, ok := r.BasicAuth(); !ok || user == "" {
			http.Error(w, "Authentication credentials were not provided.", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jobKey(r *http.Request) string {
	return r.PathValue("project") + "/" + r.PathValue("spider") + "/" + r.PathValue("job")
}

func stateHandler(logger *slog.Logger, fx *fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := jobKey(r)
		j, ok := fx.find(key)
		if !ok {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(j.State)
		logger.Info("state", "job", key, "state", j.State)
	}
}

func itemsHandler(logger *slog.Logger, fx *fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := jobKey(r)
		j, ok := fx.find(key)
		if !ok {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/x-jsonlines")
		for _, item := range j.Items {
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			w.Write(item)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			w.Write([]byte("\n"))
		}
		logger.Info("items", "job", key, "count", len(j.Items))
	}
}

func listHandler(logger *slog.Logger, fx *fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project := r.PathValue("project")
		q := r.URL.Query()
		state := q.Get("state")
		tag := q.Get("has_tag")

		count := -1
		if v, err := strconv.Atoi(q.Get("count")); err == nil && v >= 0 {
			count = v
		}

		var listed []jobSummary
		for _, j := range fx.Jobs {
			if count >= 0 && len(listed) == count {
				break
			}
			if p, _, _ := strings.Cut(j.Key, "/"); p != project {
				continue
			}
			if state != "" && j.State != state {
				continue
			}
			if tag != "" && !slices.Contains(j.Tags, tag) {
				continue
			}
			listed = append(listed, jobSummary{Key: j.Key, State: j.State, Tags: j.Tags, Items: len(j.Items)})
		}

		w.Header().Set("Content-Type", "application/x-jsonlines")
		enc := json.NewEncoder(w)
		for _, s := range listed {
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			enc.Encode(s)
		}
		logger.Info("list", "project", project, "state", state, "tag", tag, "returned", len(listed))
	}
}
