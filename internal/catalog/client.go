package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"alphawatch/pkg/logx"
)

// ErrFetch is the sentinel all fetch failures wrap. Callers treat a fetch
// failure as "no new information this cycle", never as fatal.
var ErrFetch = errors.New("catalog fetch failed")

// FetchError carries the failing stage alongside the cause.
type FetchError struct {
	Stage string // "request", "status", "decode", "envelope"
	Err   error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return "catalog fetch: " + e.Stage
	}
	return fmt.Sprintf("catalog fetch: %s: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

type ClientConfig struct {
	URL        string
	Timeout    time.Duration // per-request; 0 means default
	RatePerSec int           // fetch pacing; 0 means default
}

// Client fetches and normalizes catalog snapshots.
type Client struct {
	httpClient *http.Client
	url        string
	limiter    *rate.Limiter
	log        logx.Logger
}

func NewClient(cfg ClientConfig, log logx.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("catalog url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 2
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		log:        log,
	}, nil
}

type envelope struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
}

// Fetch performs one GET and returns the normalized snapshot.
// Every failure mode wraps ErrFetch; Fetch never panics on malformed input.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Stage: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Stage: "request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Stage: "request", Err: err}
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, &FetchError{Stage: "request", Err: readErr}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Stage: "status", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	// UseNumber keeps large numeric ids exact when stringified.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, &FetchError{Stage: "decode", Err: err}
	}
	if !env.Success {
		return nil, &FetchError{Stage: "envelope", Err: errors.New("success=false")}
	}
	if env.Data == nil {
		return nil, &FetchError{Stage: "envelope", Err: errors.New("missing data field")}
	}

	snap := make(Snapshot, 0, len(env.Data))
	dropped := 0
	for _, raw := range env.Data {
		e, ok := Normalize(raw)
		if !ok {
			dropped++
			continue
		}
		snap = append(snap, e)
	}
	if dropped > 0 {
		c.log.Debug("catalog records without id dropped", logx.Int("count", dropped))
	}
	return snap, nil
}
