package membersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a typed error decoded from an ErrorResponse body.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	UserID      string
	TeamName    string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s (http %d)", e.Code, e.Description, e.StatusCode)
	}
	return fmt.Sprintf("%s (http %d)", e.Code, e.StatusCode)
}

// Client is a small client for the members service API, used by integration
// tests and operational tooling.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is attached as a bearer credential when set.
	Token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of the client that authenticates with the given
// bearer token.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		BaseURL:    c.BaseURL,
		HTTPClient: c.HTTPClient,
		Token:      token,
	}
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return decodeJSON(resp, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er ErrorResponse
		if jsonErr := json.Unmarshal(raw, &er); jsonErr != nil || er.Error == "" {
			return &APIError{StatusCode: resp.StatusCode, Code: "unknown_error", Description: string(raw)}
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        er.Error,
			Description: er.ErrorDescription,
			UserID:      er.UserID,
			TeamName:    er.TeamName,
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Bootstrap performs one-time initial setup and returns the first admin's
// credentials and bearer token.
func (c *Client) Bootstrap(ctx context.Context, req BootstrapRequest) (BootstrapResponse, error) {
	var out BootstrapResponse
	err := c.post(ctx, "/v1/bootstrap", req, &out)
	return out, err
}

// Invite mints an invitation. Requires authentication.
func (c *Client) Invite(ctx context.Context, req InviteRequest) (InviteResponse, error) {
	var out InviteResponse
	err := c.post(ctx, "/v1/invitations", req, &out)
	return out, err
}

// Accept redeems an invitation token. Public.
func (c *Client) Accept(ctx context.Context, req AcceptRequest) (AcceptResponse, error) {
	var out AcceptResponse
	err := c.post(ctx, "/v1/invitations/accept", req, &out)
	return out, err
}

// Resend re-arms an invitation with a fresh token.
func (c *Client) Resend(ctx context.Context, invitationID string) (InviteResponse, error) {
	var out InviteResponse
	err := c.post(ctx, "/v1/invitations/"+invitationID+"/resend", nil, &out)
	return out, err
}

// Revoke retires a pending invitation.
func (c *Client) Revoke(ctx context.Context, invitationID string) error {
	var out RevokeResponse
	return c.post(ctx, "/v1/invitations/"+invitationID+"/revoke", nil, &out)
}

// RepairUser fills in whatever the given account is missing.
func (c *Client) RepairUser(ctx context.Context, userID string, req RepairUserRequest) (RepairUserResponse, error) {
	var out RepairUserResponse
	err := c.post(ctx, "/v1/admin/users/"+userID+"/repair", req, &out)
	return out, err
}

// MergeUsers folds the remove-side account into the keep-side one.
func (c *Client) MergeUsers(ctx context.Context, req MergeUsersRequest) error {
	var out MergeUsersResponse
	return c.post(ctx, "/v1/admin/users/merge", req, &out)
}

// FixCrossOffice repairs cross-office membership mismatches.
func (c *Client) FixCrossOffice(ctx context.Context, req FixCrossOfficeRequest) (FixCrossOfficeResponse, error) {
	var out FixCrossOfficeResponse
	err := c.post(ctx, "/v1/admin/cross-office/fix", req, &out)
	return out, err
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.get(ctx, "/livez", &out)
	return out, err
}

// Readyz checks the readiness endpoint.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.get(ctx, "/readyz", &out)
	return out, err
}
