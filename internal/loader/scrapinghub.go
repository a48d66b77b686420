package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wondersell/seller-stats/internal/metrics"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

const (
	defaultScrapinghubURL = "https://storage.scrapinghub.com"
	stateFinished         = "finished"
)

// Scrapinghub is a client for the Scrapinghub job storage API.
type Scrapinghub struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// ScrapinghubOption configures the Scrapinghub client.
type ScrapinghubOption func(*Scrapinghub)

// WithBaseURL overrides the storage API endpoint.
func WithBaseURL(u string) ScrapinghubOption {
	return func(s *Scrapinghub) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ScrapinghubOption {
	return func(s *Scrapinghub) {
		s.client = hc
	}
}

// WithRateLimit throttles API calls to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) ScrapinghubOption {
	return func(s *Scrapinghub) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithClientLogger sets a custom logger.
func WithClientLogger(l *slog.Logger) ScrapinghubOption {
	return func(s *Scrapinghub) {
		s.log = l
	}
}

// NewScrapinghub creates a client authenticating with apiKey.
// It returns ErrNoAPIKey when apiKey is empty.
func NewScrapinghub(apiKey string, opts ...ScrapinghubOption) (*Scrapinghub, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: pass an API key or set SH_APIKEY", ErrNoAPIKey)
	}

	s := &Scrapinghub{
		apiKey:  apiKey,
		baseURL: defaultScrapinghubURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// JobState returns the state of a job such as "running" or "finished".
func (s *Scrapinghub) JobState(ctx context.Context, jobKey string) (string, error) {
	body, err := s.get(ctx, "state", "/jobs/"+jobKey+"/state", nil)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var state string
	if err := json.NewDecoder(body).Decode(&state); err != nil {
		return "", fmt.Errorf("parsing job state: %w", err)
	}
	return state, nil
}

// Items returns every item a job stored.
func (s *Scrapinghub) Items(ctx context.Context, jobKey string) ([]domain.RawRecord, error) {
	body, err := s.get(ctx, "items", "/items/"+jobKey, url.Values{"format": {"jl"}})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	items, err := decodeJSONLines(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("parsing job items: %w", err)
	}
	return items, nil
}

type jobSummary struct {
	Key string `json:"key"`
}

// FinishedJobs lists the keys of the most recent finished jobs of project
// carrying tag, newest first.
func (s *Scrapinghub) FinishedJobs(ctx context.Context, project, tag string, count int) ([]string, error) {
	q := url.Values{
		"state": {stateFinished},
		"count": {strconv.Itoa(count)},
	}
	if tag != "" {
		q.Set("has_tag", tag)
	}

	body, err := s.get(ctx, "jobq", "/jobq/"+project+"/list", q)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	var keys []string
	for dec.More() {
		var j jobSummary
		if err := dec.Decode(&j); err != nil {
			return nil, fmt.Errorf("parsing job list: %w", err)
		}
		keys = append(keys, j.Key)
	}
	return keys, nil
}

func (s *Scrapinghub) get(ctx context.Context, endpoint, path string, q url.Values) (io.ReadCloser, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	metrics.ScrapinghubRequestsTotal.WithLabelValues(endpoint).Inc()

	u := s.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.SetBasicAuth(s.apiKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s request: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("scrapinghub API error (status %d): %s",
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

// JobLoader loads the items of one finished Scrapinghub job.
type JobLoader struct {
	base
	client *Scrapinghub
	jobKey string
}

// Job returns a Loader for the items of jobKey.
func (s *Scrapinghub) Job(jobKey string, opts ...Option) *JobLoader {
	return &JobLoader{base: newBase("scrapinghub", opts), client: s, jobKey: jobKey}
}

// Load implements Loader. It returns ErrNotReady unless the job finished.
func (l *JobLoader) Load(ctx context.Context) ([]domain.RawRecord, error) {
	l.log.Info("loading items from scrapinghub job", "job", l.jobKey)

	state, err := l.client.JobState(ctx, l.jobKey)
	if err != nil {
		return l.finish(nil, fmt.Errorf("getting job %s state: %w", l.jobKey, err))
	}
	if state != stateFinished {
		return l.finish(nil, fmt.Errorf("%w: job %s is %s", ErrNotReady, l.jobKey, state))
	}

	items, err := l.client.Items(ctx, l.jobKey)
	if err != nil {
		return l.finish(nil, fmt.Errorf("loading job %s items: %w", l.jobKey, err))
	}
	return l.finish(items, nil)
}

// LastTwo loads the items of the two most recent finished jobs tagged tag,
// older first. It is used to compare consecutive category crawls.
func (s *Scrapinghub) LastTwo(ctx context.Context, project, tag string) (older, newer []domain.RawRecord, err error) {
	keys, err := s.FinishedJobs(ctx, project, tag, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(keys) < 2 {
		return nil, nil, fmt.Errorf("%w: need two finished %q jobs in project %s, found %d",
			ErrNotReady, tag, project, len(keys))
	}

	s.log.Info("comparing scrapinghub jobs", "older", keys[1], "newer", keys[0])

	if newer, err = s.Items(ctx, keys[0]); err != nil {
		return nil, nil, fmt.Errorf("loading job %s items: %w", keys[0], err)
	}
	if older, err = s.Items(ctx, keys[1]); err != nil {
		return nil, nil, fmt.Errorf("loading job %s items: %w", keys[1], err)
	}
	return older, newer, nil
}
