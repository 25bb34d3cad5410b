// Package client is the HTTP client for the VisaFlow REST API. It speaks the
// wire types of package api and hands domain types back to its callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
)

// StatusError is returned for a non-2xx response that does not map onto a
// domain sentinel error.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client calls the VisaFlow API. It is safe for concurrent use.
// Requests are never retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a Client for the API at baseURL (scheme and host, no /api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ---- users -----------------------------------------------------------------

// CreateUser creates a bare user in trial.
func (c *Client) CreateUser(ctx context.Context) (domain.User, error) {
	var out api.User
	if _, err := c.do(ctx, http.MethodPost, "/api/users", struct{}{}, &out); err != nil {
		return domain.User{}, fmt.Errorf("client.CreateUser: %w", err)
	}
	return out.Domain(), nil
}

// GetUser fetches a user. Returns domain.ErrNotFound for an unknown id.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var out api.User
	if _, err := c.do(ctx, http.MethodGet, "/api/users/"+id.String(), nil, &out); err != nil {
		return domain.User{}, fmt.Errorf("client.GetUser: %w", err)
	}
	return out.Domain(), nil
}

// UpdateUser applies a partial update and returns the updated user.
func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error) {
	var out api.User
	if _, err := c.do(ctx, http.MethodPatch, "/api/users/"+id.String(), api.UpdateUserFromPatch(patch), &out); err != nil {
		return domain.User{}, fmt.Errorf("client.UpdateUser: %w", err)
	}
	return out.Domain(), nil
}

// ---- trips -----------------------------------------------------------------

// ListTrips returns every trip of the user in creation order, following
// pages until the X-Total-Count header is satisfied.
func (c *Client) ListTrips(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips := []domain.Trip{}
	for p := (domain.PaginationParams{Page: 1, Limit: domain.MaxPageLimit}); ; p.Page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(p.Page))
		q.Set("limit", strconv.Itoa(p.Limit))

		var out []api.Trip
		h, err := c.do(ctx, http.MethodGet, "/api/trips/"+userID.String()+"?"+q.Encode(), nil, &out)
		if err != nil {
			return nil, fmt.Errorf("client.ListTrips: %w", err)
		}
		for _, t := range out {
			trips = append(trips, t.Domain())
		}

		total, err := strconv.ParseInt(h.Get("X-Total-Count"), 10, 64)
		if err != nil || len(out) < p.Limit || p.Last(total) {
			return trips, nil
		}
	}
}

// CreateTrip stores a trip and returns the backend's record.
func (c *Client) CreateTrip(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (domain.Trip, error) {
	var out api.Trip
	if _, err := c.do(ctx, http.MethodPost, "/api/trips", api.CreateTripFromDraft(userID, draft), &out); err != nil {
		return domain.Trip{}, fmt.Errorf("client.CreateTrip: %w", err)
	}
	return out.Domain(), nil
}

// DeleteTrip deletes a trip. Returns domain.ErrNotFound for an unknown id.
func (c *Client) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/trips/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteTrip: %w", err)
	}
	return nil
}

// CompleteTrip marks a trip completed.
func (c *Client) CompleteTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var out api.Trip
	if _, err := c.do(ctx, http.MethodPatch, "/api/trips/"+id.String()+"/complete", nil, &out); err != nil {
		return domain.Trip{}, fmt.Errorf("client.CompleteTrip: %w", err)
	}
	return out.Domain(), nil
}

// ---- requirements ----------------------------------------------------------

// Countries returns the country reference list.
func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	var out []api.Country
	if _, err := c.do(ctx, http.MethodGet, "/api/countries", nil, &out); err != nil {
		return nil, fmt.Errorf("client.Countries: %w", err)
	}
	cs := make([]domain.Country, len(out))
	for i, ct := range out {
		cs[i] = domain.Country{Code: ct.Code, Name: ct.Name}
	}
	return cs, nil
}

// CheckRequirements looks up the visa requirement for a nationality and destination.
func (c *Client) CheckRequirements(ctx context.Context, check domain.RequirementCheck) (domain.VisaRequirement, error) {
	var out api.VisaRequirement
	if _, err := c.do(ctx, http.MethodPost, "/api/check-requirements", api.CheckRequirementsFromDomain(check), &out); err != nil {
		return domain.VisaRequirement{}, fmt.Errorf("client.CheckRequirements: %w", err)
	}
	return out.Domain(), nil
}

// ---- alerts ----------------------------------------------------------------

// RegisterAlerts stores scheduled alerts and returns those the backend kept.
func (c *Client) RegisterAlerts(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
	body := api.RegisterAlertsRequest{Alerts: api.AlertsFromDomain(alerts)}
	var out []api.Alert
	if _, err := c.do(ctx, http.MethodPost, "/api/alerts", body, &out); err != nil {
		return nil, fmt.Errorf("client.RegisterAlerts: %w", err)
	}
	stored := make([]domain.ScheduledAlert, len(out))
	for i, a := range out {
		stored[i] = a.Domain()
	}
	return stored, nil
}

// PendingAlerts lists a user's undelivered alerts.
func (c *Client) PendingAlerts(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error) {
	var out []api.Alert
	if _, err := c.do(ctx, http.MethodGet, "/api/users/"+userID.String()+"/alerts", nil, &out); err != nil {
		return nil, fmt.Errorf("client.PendingAlerts: %w", err)
	}
	alerts := make([]domain.ScheduledAlert, len(out))
	for i, a := range out {
		alerts[i] = a.Domain()
	}
	return alerts, nil
}

// ---- transport -------------------------------------------------------------

// do sends one request. in, when non-nil, is encoded as the JSON body; out,
// when non-nil, receives the decoded 2xx body. The response headers are
// returned for callers that need them.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (http.Header, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.Header, decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}

// decodeError maps an error response onto the domain sentinels:
// 404 → domain.ErrNotFound, 400/422 → domain.ErrValidation.
func decodeError(resp *http.Response) error {
	var body api.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = body.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return wrapSentinel(domain.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return wrapSentinel(domain.ErrValidation, msg)
	}
	return &StatusError{StatusCode: resp.StatusCode, Code: body.Error.Code, Message: msg}
}

func wrapSentinel(sentinel error, msg string) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// IsUnavailable reports whether err is a transport failure or a 5xx, as
// opposed to the backend rejecting the request.
func IsUnavailable(err error) bool {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return err != nil
}
