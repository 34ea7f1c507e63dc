// Package gateway talks to the nullslot GraphQL API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/marcjazz/nullslot/internal/domain"
)

const maxResponseBytes = 1 << 20

// Operation is a named GraphQL document.
type Operation struct {
	Name  string
	Query string
}

// Error is a rejection reported by the backend. Error() returns the server's
// message unchanged so it can be shown to the user as is.
type Error struct {
	Operation  string
	Message    string
	StatusCode int
	Code       string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap maps authentication failures onto domain.ErrUnauthorized.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.Code == "UNAUTHORIZED" || e.Code == "UNAUTHENTICATED" {
		return domain.ErrUnauthorized
	}
	return nil
}

// Config configures the GraphQL client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client executes GraphQL operations over HTTP POST.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a client whose requests carry creds.
func NewClient(cfg Config, creds Credentials, logger *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return NewClientWithHTTP(cfg.Endpoint, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: NewCredentialTransport(transport, creds),
	}, logger)
}

// NewClientWithHTTP uses httpClient as is. Its transport is responsible for credentials.
func NewClientWithHTTP(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer("github.com/marcjazz/nullslot/internal/gateway"),
	}
}

type request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Do runs op with vars and decodes the data object into out.
func (c *Client) Do(ctx context.Context, op Operation, vars map[string]any, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "graphql "+op.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", op.Name)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(request{OperationName: op.Name, Query: op.Query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", op.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", op.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.DebugContext(ctx, "graphql call completed",
		"operation", op.Name,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds())

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %w", domain.ErrBackendUnavailable, op.Name, err)
	}

	var decoded response
	if jsonErr := json.Unmarshal(raw, &decoded); jsonErr != nil {
		if resp.StatusCode == http.StatusUnauthorized {
			return &Error{Operation: op.Name, Message: "unauthorized", StatusCode: resp.StatusCode}
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%w: %s returned status %d", domain.ErrBackendUnavailable, op.Name, resp.StatusCode)
		}
		return fmt.Errorf("decoding %s response: %w", op.Name, jsonErr)
	}

	if len(decoded.Errors) > 0 {
		first := decoded.Errors[0]
		code, _ := first.Extensions["code"].(string)
		return &Error{Operation: op.Name, Message: first.Message, StatusCode: resp.StatusCode, Code: code}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return &Error{Operation: op.Name, Message: "unauthorized", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s returned status %d", domain.ErrBackendUnavailable, op.Name, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if len(decoded.Data) == 0 || bytes.Equal(decoded.Data, []byte("null")) {
		return fmt.Errorf("%s: response has no data", op.Name)
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", op.Name, err)
	}
	return nil
}

// IsServerRejection reports whether err carries a message from the backend.
func IsServerRejection(err error) bool {
	var gqlErr *Error
	return errors.As(err, &gqlErr)
}
