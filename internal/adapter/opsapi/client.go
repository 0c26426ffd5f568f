package opsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/server/http/dto"
)

// TooManyRequestsError signals the server-side creation limiter pushed back.
// Unwraps to the domain rate-limit error.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

func (e TooManyRequestsError) Unwrap() error {
	return domainErrors.ErrRateLimited
}

// Client exposes the server operations the degraded-mode trigger needs.
type Client interface {
	Rules(ctx context.Context) ([]model.RecurrenceRule, error)
	CreateRequest(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error)
	AdvanceRule(ctx context.Context, id int64) error
}

// HTTPClient implements Client against the public HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an HTTP API client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("server url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Rules fetches every recurrence rule.
func (c *HTTPClient) Rules(ctx context.Context) ([]model.RecurrenceRule, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/rules", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpected("list rules", resp)
	}

	var data []dto.RuleResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	rules := make([]model.RecurrenceRule, 0, len(data))
	for _, r := range data {
		rules = append(rules, model.RecurrenceRule{
			ID:              r.ID,
			CustomerID:      r.CustomerID,
			Type:            model.RuleType(r.Type),
			Days:            r.Days,
			Date:            r.Date,
			Time:            r.Time,
			Cans:            r.Cans,
			Priority:        model.RequestPriority(r.Priority),
			NextRun:         r.NextRun,
			LastTriggeredAt: r.LastTriggeredAt,
		})
	}
	return rules, nil
}

// CreateRequest creates a delivery request through the guard. A 409 comes
// back as the domain duplicate error with the conflicting request attached;
// a 429 as TooManyRequestsError.
func (c *HTTPClient) CreateRequest(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error) {
	payload, err := json.Marshal(dto.CreateRequestRequest{CustomerID: customerID, Cans: cans, Priority: string(priority)})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/requests", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var data dto.RequestResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, err
		}
		return &model.DeliveryRequest{
			ID:         data.ID,
			CustomerID: data.CustomerID,
			Cans:       data.Cans,
			Priority:   model.RequestPriority(data.Priority),
			Status:     model.RequestStatus(data.Status),
		}, nil
	case http.StatusConflict:
		var conflict dto.ConflictResponse
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err == nil && conflict.ExistingID != 0 {
			return nil, &domainErrors.DuplicateActiveRequestError{ExistingID: conflict.ExistingID, ExistingStatus: conflict.ExistingStatus}
		}
		return nil, domainErrors.ErrDuplicateActiveRequest
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case http.StatusNotFound:
		return nil, domainErrors.ErrCustomerNotFound
	default:
		return nil, c.unexpected("create request", resp)
	}
}

// AdvanceRule moves a rule past its current occurrence on the server. The
// server answers 204 when the rule was a one_time and is now gone.
func (c *HTTPClient) AdvanceRule(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodPost, path.Join("/api/rules", strconv.FormatInt(id, 10), "advance"), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		return c.unexpected("advance rule", resp)
	}
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *HTTPClient) unexpected(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("api request failed",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(body)),
	)
	return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
