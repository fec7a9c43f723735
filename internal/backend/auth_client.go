package backend

import (
	"context"
	"net/http"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the profile of the account owning the bearer token in header.
func (c *Client) Profile(ctx context.Context, header http.Header) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "admin.profile", http.MethodGet, "/admin/profile", header, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
