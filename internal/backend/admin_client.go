package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// HeaderSource produces the headers attached to every authenticated call.
type HeaderSource interface {
	AuthHeaders(ctx context.Context) http.Header
}

// AdminClient is the authenticated surface used by the console views. Every
// call asks the HeaderSource for fresh headers; failures are *TransportError.
type AdminClient struct {
	client  *Client
	headers HeaderSource
}

// NewAdminClient binds the client to a header source.
func NewAdminClient(client *Client, headers HeaderSource) *AdminClient {
	return &AdminClient{client: client, headers: headers}
}

func (a *AdminClient) call(ctx context.Context, endpoint, method, path string, in, out any) error {
	if err := a.client.do(ctx, endpoint, method, path, a.headers.AuthHeaders(ctx), in, out); err != nil {
		if te, ok := err.(*TransportError); ok {
			return te
		}
		return &TransportError{Op: endpoint, Err: err}
	}
	return nil
}

// Dashboard loads the summary counters.
func (a *AdminClient) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := a.call(ctx, "admin.dashboard", http.MethodGet, "/admin/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListUsers returns every account.
func (a *AdminClient) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := a.call(ctx, "admin.users.list", http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one account.
func (a *AdminClient) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := a.call(ctx, "admin.users.get", http.MethodGet, fmt.Sprintf("/admin/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account.
func (a *AdminClient) CreateUser(ctx context.Context, req domain.UserRequest) (*domain.User, error) {
	var user domain.User
	if err := a.call(ctx, "admin.users.create", http.MethodPost, "/admin/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an account. An empty password leaves it unchanged.
func (a *AdminClient) UpdateUser(ctx context.Context, id int64, req domain.UserRequest) (*domain.User, error) {
	var user domain.User
	if err := a.call(ctx, "admin.users.update", http.MethodPut, fmt.Sprintf("/admin/users/%d", id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleUserStatus flips the enabled flag.
func (a *AdminClient) ToggleUserStatus(ctx context.Context, id int64) error {
	return a.call(ctx, "admin.users.toggle", http.MethodPut, fmt.Sprintf("/admin/users/%d/toggle-status", id), struct{}{}, nil)
}

// DeleteUser removes an account.
func (a *AdminClient) DeleteUser(ctx context.Context, id int64) error {
	return a.call(ctx, "admin.users.delete", http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil)
}

// AssignPackage creates a package for the given user.
func (a *AdminClient) AssignPackage(ctx context.Context, userID int64, req domain.PackageRequest) (*domain.Package, error) {
	var pkg domain.Package
	if err := a.call(ctx, "admin.users.packages", http.MethodPost, fmt.Sprintf("/admin/users/%d/packages", userID), req, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListPackages returns every package.
func (a *AdminClient) ListPackages(ctx context.Context) ([]domain.Package, error) {
	var pkgs []domain.Package
	if err := a.call(ctx, "admin.packages.list", http.MethodGet, "/admin/packages", nil, &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// CreatePackage creates a package.
func (a *AdminClient) CreatePackage(ctx context.Context, req domain.PackageRequest) (*domain.Package, error) {
	var pkg domain.Package
	if err := a.call(ctx, "admin.packages.create", http.MethodPost, "/admin/packages", req, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// UpdatePackage updates a package.
func (a *AdminClient) UpdatePackage(ctx context.Context, id int64, req domain.PackageRequest) (*domain.Package, error) {
	var pkg domain.Package
	if err := a.call(ctx, "admin.packages.update", http.MethodPut, fmt.Sprintf("/admin/packages/%d", id), req, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// TogglePackageStatus flips the active flag.
func (a *AdminClient) TogglePackageStatus(ctx context.Context, id int64) error {
	return a.call(ctx, "admin.packages.toggle", http.MethodPut, fmt.Sprintf("/admin/packages/%d/toggle-status", id), struct{}{}, nil)
}

// DeletePackage removes a package.
func (a *AdminClient) DeletePackage(ctx context.Context, id int64) error {
	return a.call(ctx, "admin.packages.delete", http.MethodDelete, fmt.Sprintf("/admin/packages/%d", id), nil, nil)
}

// ListInquiries returns every inquiry.
func (a *AdminClient) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	if err := a.call(ctx, "admin.inquiries.list", http.MethodGet, "/admin/inquiries", nil, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}

// RespondInquiry stores the operator's reply.
func (a *AdminClient) RespondInquiry(ctx context.Context, id int64, response string) error {
	body := map[string]string{"response": response}
	return a.call(ctx, "admin.inquiries.respond", http.MethodPut, fmt.Sprintf("/admin/inquiries/%d/respond", id), body, nil)
}

// UpdateInquiryStatus moves an inquiry to status.
func (a *AdminClient) UpdateInquiryStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	body := map[string]string{"status": string(status)}
	return a.call(ctx, "admin.inquiries.status", http.MethodPut, fmt.Sprintf("/admin/inquiries/%d/status", id), body, nil)
}
