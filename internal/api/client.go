// Package api is the HTTP client for the ringsight control-plane REST API.
// Only the endpoints the onboarding flow depends on are wrapped here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ringsight/ringsight/internal/logger"
)

// APIError is a non-2xx response from the control plane, carrying the
// server's human-readable message when one was provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// Client talks to the control-plane API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL. The token may be empty for
// endpoints that allow anonymous access (none of the onboarding ones do in
// production, but tests use it).
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// CheckSubdomain reports whether the subdomain is still free to claim.
func (c *Client) CheckSubdomain(ctx context.Context, subdomain string) (bool, error) {
	endpoint := c.baseURL + "/api/v1/tenants/subdomain-availability?subdomain=" + url.QueryEscape(subdomain)

	var result SubdomainAvailability
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return false, err
	}
	return result.Available, nil
}

// TestPhoneSystem asks the control plane to connect to the customer's PBX
// with the supplied credentials.
func (c *Client) TestPhoneSystem(ctx context.Context, req PhoneSystemTestRequest) (PhoneSystemTestResult, error) {
	var result PhoneSystemTestResult
	err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/phone-systems/test", req, &result)
	return result, err
}

// CreateTenant performs the one-shot tenant creation. Either it returns the
// new tenant's identifier or an error; there is no partial success.
func (c *Client) CreateTenant(ctx context.Context, req TenantCreateRequest) (TenantCreateResponse, error) {
	var result TenantCreateResponse
	err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/tenants", req, &result)
	return result, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.Debug("api: %s %s", method, endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Message = eb.Message
		}
		logger.Warn("api: %s %s -> %d (%s)", method, endpoint, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
