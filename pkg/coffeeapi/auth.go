package coffeeapi

import (
	"context"
	"net/http"
	"net/url"
)

// Credentials is the login payload forwarded to the upstream identity
// provider.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration mirrors the upstream sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the upstream-issued bearer credential.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account with the upstream identity provider.
func (c *Client) Register(ctx context.Context, reg Registration) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify redeems an email-verification token. The upstream expects the token
// as a query parameter with an empty body and answers 2xx with no payload.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/verify?token="+url.QueryEscape(token), nil, nil)
}
