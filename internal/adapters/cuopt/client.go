package cuopt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultInvokeURL = "https://optimize.api.nvidia.com/v1/nvidia/cuopt"
	DefaultStatusURL = "https://optimize.api.nvidia.com/v1/status/"

	routingAction   = "cuOpt_OptimizedRouting"
	requestIDHeader = "NVCF-REQID"
)

var (
	ErrMissingAPIKey   = errors.New("No API key provided for cuOpt")
	ErrPollTimeout     = errors.New("solver did not finish within the poll limit")
	ErrInvalidResponse = errors.New("invalid response format from cuOpt API")
)

type Options struct {
	APIKey       string
	InvokeURL    string
	StatusURL    string
	PollInterval time.Duration
	MaxPolls     int
	HTTPClient   *http.Client
	// Cache is consulted before submitting; nil disables caching.
	Cache ports.SolutionCache
}

// Client implements ports.Solver against the remote cuOpt service.
//
// A submission answered with 202 is polled on the status endpoint until a
// non-202 answer arrives or MaxPolls is reached. The client is safe for
// concurrent use.
type Client struct {
	session      *http.Client
	apiKey       string
	invokeURL    string
	statusURL    string
	pollInterval time.Duration
	maxPolls     int
	cache        ports.SolutionCache
}

func New(opts Options) *Client {
	c := &Client{
		session:      opts.HTTPClient,
		apiKey:       strings.TrimSpace(opts.APIKey),
		invokeURL:    opts.InvokeURL,
		statusURL:    opts.StatusURL,
		pollInterval: opts.PollInterval,
		maxPolls:     opts.MaxPolls,
		cache:        opts.Cache,
	}
	if c.session == nil {
		c.session = &http.Client{Timeout: 30 * time.Second}
	}
	if c.invokeURL == "" {
		c.invokeURL = DefaultInvokeURL
	}
	if c.statusURL == "" {
		c.statusURL = DefaultStatusURL
	}
	if c.pollInterval <= 0 {
		c.pollInterval = time.Second
	}
	if c.maxPolls <= 0 {
		c.maxPolls = 120
	}
	return c
}

type invokeRequest struct {
	Action string                `json:"action"`
	Data   *domain.SolverProblem `json:"data"`
}

// Solve submits problem and returns the normalized solution.
func (c *Client) Solve(ctx context.Context, problem *domain.SolverProblem) (_ *domain.SolutionRecord, err error) {
	defer obs.Time(ctx, "cuopt.Solve")(&err)

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if problem == nil {
		return nil, errors.New("solve: problem is nil")
	}

	body, err := json.Marshal(invokeRequest{Action: routingAction, Data: problem})
	if err != nil {
		return nil, fmt.Errorf("solve: encode request: %w", err)
	}

	var key string
	if c.cache != nil {
		key = ProblemKey(problem)
		if sol, ok := c.lookup(ctx, key); ok {
			return sol, nil
		}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.invokeURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("solve: submit: %w", err)
	}

	resp, err = c.awaitResult(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("solve: read response: %w", err)
	}

	sol, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, sol); err != nil {
			log.Printf("req_id=%s cuopt: cache put failed key=%s err=%v", obs.RequestID(ctx), key, err)
		}
	}
	return sol, nil
}

// awaitResult polls the status endpoint while the service answers 202.
func (c *Client) awaitResult(ctx context.Context, resp *http.Response) (*http.Response, error) {
	for polls := 0; resp.StatusCode == http.StatusAccepted; polls++ {
		reqID := strings.TrimSpace(resp.Header.Get(requestIDHeader))
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if reqID == "" {
			return nil, fmt.Errorf("%w: 202 without %s header", ErrInvalidResponse, requestIDHeader)
		}
		if polls >= c.maxPolls {
			return nil, fmt.Errorf("%w: request %s after %d polls", ErrPollTimeout, reqID, polls)
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		log.Printf("req_id=%s cuopt: poll request=%s attempt=%d", obs.RequestID(ctx), reqID, polls+1)
		obs.SolverPolls.Inc()

		req, err := c.newRequest(ctx, http.MethodGet, c.statusURL+reqID, nil)
		if err != nil {
			return nil, err
		}
		resp, err = c.do(req)
		if err != nil {
			return nil, fmt.Errorf("poll %s: %w", reqID, err)
		}
	}
	return resp, nil
}

func (c *Client) lookup(ctx context.Context, key string) (*domain.SolutionRecord, bool) {
	sol, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		obs.SolutionCacheLookups.WithLabelValues("error").Inc()
		log.Printf("req_id=%s cuopt: cache get failed key=%s err=%v", obs.RequestID(ctx), key, err)
		return nil, false
	case !ok:
		obs.SolutionCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	default:
		obs.SolutionCacheLookups.WithLabelValues("hit").Inc()
		return sol, true
	}
}
