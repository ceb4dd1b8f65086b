package liststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultJSONBinBaseURL = "https://api.jsonbin.io/v3/b"
	defaultHTTPTimeout    = 15 * time.Second
	masterKeyHeader       = "X-Master-Key"
	maxResponseBytes      = 10 << 20
)

// JSONBinConfig locates the bin holding the waitlist.
type JSONBinConfig struct {
	BinID   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// IsConfigured reports whether both the bin id and the access key are set.
func (c JSONBinConfig) IsConfigured() bool {
	return strings.TrimSpace(c.BinID) != "" && strings.TrimSpace(c.APIKey) != ""
}

// JSONBinClient implements ListStore against the JSONBin v3 API.
type JSONBinClient struct {
	config JSONBinConfig
	client *http.Client
	logger *log.Logger
	tracer trace.Tracer
}

// NewJSONBinClient builds a client. A client with missing credentials is still
// usable: reads come back empty and writes are rejected with KindConfig.
func NewJSONBinClient(config JSONBinConfig, logger *log.Logger) *JSONBinClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultJSONBinBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = defaultHTTPTimeout
	}
	if logger == nil {
		logger = log.NewLoggerWithJSONOutput()
	}

	return &JSONBinClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
		tracer: otel.Tracer("github.com/grahmind/careers-waitlist/pkg/liststore"),
	}
}

// IsConfigured reports whether the client has credentials.
func (c *JSONBinClient) IsConfigured() bool {
	return c.config.IsConfigured()
}

func (c *JSONBinClient) Read(ctx context.Context) (Snapshot, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, c.logger)

	ctx, span := c.tracer.Start(ctx, "liststore.Read")
	defer span.End()

	if !c.IsConfigured() {
		logger.Warn("List store is not configured; treating waitlist as empty",
			"has_bin_id", c.config.BinID != "",
			"has_api_key", c.config.APIKey != "",
		)
		return Snapshot{Shape: ShapeNone, Records: []models.WaitlistRecord{}}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.binURL()+"/latest", nil)
	if err != nil {
		return Snapshot{}, c.fail(span, &Error{Op: "read", Kind: KindUnknown, Err: err})
	}
	req.Header.Set(masterKeyHeader, c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Snapshot{}, c.fail(span, &Error{Op: "read", Kind: KindNetwork, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Snapshot{}, c.fail(span, &Error{Op: "read", Kind: KindNetwork, Status: resp.StatusCode, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("List store read returned non-success status; treating waitlist as empty",
			"status", resp.StatusCode,
		)
		return Snapshot{Shape: ShapeNone, Records: []models.WaitlistRecord{}}, nil
	}

	snapshot, err := decodeLatest(body)
	if err != nil {
		return Snapshot{}, c.fail(span, &Error{Op: "read", Kind: KindUnknown, Status: resp.StatusCode, Err: err})
	}

	if snapshot.Shape == ShapeUnknown {
		logger.Warn("List store document has an unexpected shape; no records decoded",
			"payload_bytes", len(body),
		)
	}

	span.SetAttributes(
		attribute.String("liststore.shape", snapshot.Shape.String()),
		attribute.Int("liststore.records", snapshot.Len()),
	)

	return snapshot, nil
}

func (c *JSONBinClient) Write(ctx context.Context, records []models.WaitlistRecord) error {
	logger := log.GetLoggerInstanceFromContext(ctx, c.logger)

	ctx, span := c.tracer.Start(ctx, "liststore.Write", trace.WithAttributes(
		attribute.Int("liststore.records", len(records)),
	))
	defer span.End()

	if !c.IsConfigured() {
		logger.Error("List store is not configured; rejecting write")
		return c.fail(span, &Error{Op: "write", Kind: KindConfig, Err: ErrNotConfigured})
	}

	if records == nil {
		records = []models.WaitlistRecord{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return c.fail(span, &Error{Op: "write", Kind: KindUnknown, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.binURL(), bytes.NewReader(payload))
	if err != nil {
		return c.fail(span, &Error{Op: "write", Kind: KindUnknown, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(masterKeyHeader, c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.fail(span, &Error{Op: "write", Kind: KindNetwork, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return c.fail(span, &Error{
			Op:     "write",
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("jsonbin returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		})
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *JSONBinClient) binURL() string {
	return c.config.BaseURL + "/" + c.config.BinID
}

func (c *JSONBinClient) fail(span trace.Span, err *Error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Kind.String())
	return err
}
