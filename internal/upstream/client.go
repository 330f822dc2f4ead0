// Package upstream implements the HTTP client for the external lesson
// service: one endpoint returning the full ordered lesson collection and one
// claiming a single lesson on behalf of the authenticated tutor.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/tutorlane/tutor-dash-api/internal/models"
	"github.com/tutorlane/tutor-dash-api/pkg/config"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
)

// RequestObserver records upstream request metrics.
type RequestObserver interface {
	ObserveUpstreamRequest(endpoint string, status int, duration time.Duration)
}

// Client talks to the lesson fetch/claim service with a bounded timeout per
// call. It never retries; exceeding the timeout yields a timeout-specific
// error rather than hanging.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics RequestObserver
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger, metrics RequestObserver) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch retrieves the full ordered lesson collection.
func (c *Client) Fetch(ctx context.Context) ([]models.Lesson, error) {
	body, err := c.do(ctx, http.MethodGet, "/lessons", "lessons_fetch", nil)
	if err != nil {
		return nil, err
	}

	var lessons []models.Lesson
	if err := json.Unmarshal(body, &lessons); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParseFailure.Code, appErrors.ErrParseFailure.Status, "decode lesson collection")
	}
	return lessons, nil
}

// Claim asks the service to assign the lesson to the caller. The response is
// a possibly-partial lesson record; the store owns the merge semantics.
func (c *Client) Claim(ctx context.Context, lessonID string) (*models.LessonPatch, error) {
	payload, err := json.Marshal(map[string]string{"lessonId": lessonID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode claim request")
	}

	endpoint := fmt.Sprintf("/lessons/%s/claim", url.PathEscape(lessonID))
	body, err := c.do(ctx, http.MethodPost, endpoint, "lessons_claim", payload)
	if err != nil {
		return nil, err
	}

	var patch models.LessonPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParseFailure.Code, appErrors.ErrParseFailure.Status, "decode claim response")
	}
	return &patch, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, metricName string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveUpstreamRequest(metricName, 0, duration)
		}
		c.logger.Warn("upstream request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, classifyTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.ObserveUpstreamRequest(metricName, resp.StatusCode, duration)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamFailure.Code, appErrors.ErrUpstreamFailure.Status, "read upstream response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("upstream returned non-2xx",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrUpstreamFailure,
			fmt.Sprintf("lesson service returned status %d", resp.StatusCode))
	}

	return body, nil
}

// classifyTransportError distinguishes a bounded-wait timeout from other
// transport failures so callers can surface them differently.
func classifyTransportError(err error, endpoint string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return appErrors.Wrap(err, appErrors.ErrUpstreamTimeout.Code, appErrors.ErrUpstreamTimeout.Status,
			fmt.Sprintf("lesson service timed out on %s", endpoint))
	}
	return appErrors.Wrap(err, appErrors.ErrUpstreamFailure.Code, appErrors.ErrUpstreamFailure.Status,
		fmt.Sprintf("lesson service unreachable on %s", endpoint))
}
