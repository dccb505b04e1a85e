package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	actionFetchPending = "obtenerRegistrosPendientes"
	actionConfirm      = "confirmarRegistros"
)

var ErrEmptyEndpoint = errors.New("endpoint url is not configured")

// Backend is everything the controller may ask of the remote service.
// Dispatch can only report whether the request left the client; the
// confirmation result itself is never observable.
type Backend interface {
	FetchPending(ctx context.Context, id IdentityCode) (PendingResponse, error)
	Dispatch(ctx context.Context, id IdentityCode, rows []RowRef) error
}

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient builds a client for the endpoint; a zero timeout leaves
// requests unbounded.
func NewAPIClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	if baseURL == "" {
		return nil, ErrEmptyEndpoint
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid endpoint url: %w", err)
	}

	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *APIClient) actionURL(action string, params url.Values) string {
	params.Set("action", action)

	u, _ := url.Parse(c.baseURL)
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// fetches pending records, employee and history for an identity
func (c *APIClient) FetchPending(ctx context.Context, id IdentityCode) (PendingResponse, error) {
	url := c.actionURL(actionFetchPending, url.Values{"dni": {id.String()}})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PendingResponse{}, fmt.Errorf("error creating request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return PendingResponse{}, fmt.Errorf("error making request: %w", err)
	}
	defer res.Body.Close()

	var body PendingResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		if res.StatusCode != http.StatusOK {
			return PendingResponse{}, fmt.Errorf("unexpected status %d", res.StatusCode)
		}
		return PendingResponse{}, fmt.Errorf("error decoding response: %w", err)
	}

	if res.StatusCode != http.StatusOK && body.Error == "" {
		return PendingResponse{}, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	return body, nil
}

// sends the confirm request and drops the response unread
func (c *APIClient) Dispatch(ctx context.Context, id IdentityCode, rows []RowRef) error {
	filas, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("error encoding rows: %w", err)
	}

	url := c.actionURL(actionConfirm, url.Values{
		"dni":   {id.String()},
		"filas": {string(filas)},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	// status and body are never read
	res.Body.Close()

	return nil
}
