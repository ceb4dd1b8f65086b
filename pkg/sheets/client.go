package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grahmind/careers-waitlist/pkg/circuitbreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultRange   = "Sheet1"

	defaultHTTPTimeout = 15 * time.Second
)

var ErrNotConfigured = errors.New("google sheet id or api key is not configured")

type Config struct {
	SheetID string
	APIKey  string
	BaseURL string
	Range   string
	Timeout time.Duration
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.SheetID) != "" && strings.TrimSpace(c.APIKey) != ""
}

// StatusError is returned when the Sheets API answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("google sheets api error: %d - %s", e.Status, e.Body)
}

// AppendResult mirrors the "updates" block of an append response.
type AppendResult struct {
	UpdatedRange string `json:"updatedRange"`
	UpdatedRows  int    `json:"updatedRows"`
}

type appendRequest struct {
	Values [][]string `json:"values"`
}

type appendResponse struct {
	Updates AppendResult `json:"updates"`
}

// Client appends rows to a Google Sheet using the public values:append endpoint.
type Client struct {
	config  Config
	http    *http.Client
	breaker circuitbreaker.CircuitBreaker
	tracer  trace.Tracer
}

// NewClient builds a client; a nil breaker gets a default one.
func NewClient(config Config, breaker circuitbreaker.CircuitBreaker) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Range == "" {
		config.Range = DefaultRange
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultHTTPTimeout
	}
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
			Name:      "google_sheets",
			IsFailure: IsUpstreamFailure,
		})
	}

	return &Client{
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
		breaker: breaker,
		tracer:  otel.Tracer("github.com/grahmind/careers-waitlist/pkg/sheets"),
	}
}

func (c *Client) IsConfigured() bool {
	return c.config.IsConfigured()
}

// Breaker exposes the circuit breaker guarding the upstream.
func (c *Client) Breaker() circuitbreaker.CircuitBreaker {
	return c.breaker
}

// AppendRow appends one row with RAW value input. A single attempt is made.
func (c *Client) AppendRow(ctx context.Context, row []string) (*AppendResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "sheets.AppendRow", trace.WithAttributes(
		attribute.String("sheets.range", c.config.Range),
	))
	defer span.End()

	var result *AppendResult
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		result, callErr = c.appendRow(ctx, row)
		return callErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("sheets.updated_rows", result.UpdatedRows))
	return result, nil
}

func (c *Client) appendRow(ctx context.Context, row []string) (*AppendResult, error) {
	payload, err := json.Marshal(appendRequest{Values: [][]string{row}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.appendURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google sheets request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("google sheets response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded appendResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("decode google sheets response: %w", err)
		}
	}

	return &decoded.Updates, nil
}

func (c *Client) appendURL() string {
	query := url.Values{}
	query.Set("valueInputOption", "RAW")
	query.Set("key", c.config.APIKey)

	return fmt.Sprintf("%s/%s/values/%s:append?%s",
		c.config.BaseURL,
		url.PathEscape(c.config.SheetID),
		url.PathEscape(c.config.Range),
		query.Encode(),
	)
}

// IsUpstreamFailure keeps 4xx answers from opening the circuit.
func IsUpstreamFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= http.StatusInternalServerError
	}
	return true
}
