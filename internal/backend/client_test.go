package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/telecom-ops/admin-console/internal/backend"
	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/domain"
	"github.com/telecom-ops/admin-console/internal/observability"
	"github.com/telecom-ops/admin-console/internal/stub"
)

type staticHeaders struct{ token string }

func (s staticHeaders) AuthHeaders(context.Context) http.Header {
	h := http.Header{}
	if s.token == "" {
		h.Set(backend.AuthorizationHeader, "Bearer null")
	} else {
		h.Set(backend.AuthorizationHeader, "Bearer "+s.token)
	}
	h.Set(backend.ContentTypeHeader, backend.ContentTypeJSON)
	return h
}

func newStubClient(t *testing.T) (*backend.Client, *observability.Metrics) {
	t.Helper()
	srv, err := stub.New(config.StubConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 5,
		BcryptCost:      4,
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		AdminEmail:      "admin@example.com",
		AdminFullName:   "System Administrator",
	}, nil)
	if err != nil {
		t.Fatalf("stub: %v", err)
	}
	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	metrics := observability.NewMetrics()
	client := backend.NewClient(config.BackendConfig{BaseURL: ts.URL + stub.APIPrefix + "/", TimeoutSeconds: 5}, nil, nil, metrics)
	return client, metrics
}

func TestLoginAndProfileAgainstStub(t *testing.T) {
	client, metrics := newStubClient(t)
	ctx := context.Background()

	resp, err := client.Login(ctx, domain.Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" || resp.Username != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	user, err := client.Profile(ctx, staticHeaders{token: resp.Token}.AuthHeaders(ctx))
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Username != "admin" || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", user)
	}

	snap := metrics.Snapshot()
	if len(snap.BackendCalls) == 0 {
		t.Fatalf("backend calls not recorded: %+v", snap)
	}
}

func TestLoginFailureCarriesBackendMessage(t *testing.T) {
	client, _ := newStubClient(t)

	_, err := client.Login(context.Background(), domain.Credentials{Username: "admin", Password: "wrong"})
	var httpErr *backend.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized || !httpErr.Unauthorized() {
		t.Fatalf("status = %d", httpErr.StatusCode)
	}
	if got := backend.Message(err, "fallback"); got != "Invalid username or password" {
		t.Fatalf("message = %q", got)
	}
}

func TestProfileWithNullBearerIsRejected(t *testing.T) {
	client, _ := newStubClient(t)
	ctx := context.Background()

	_, err := client.Profile(ctx, staticHeaders{}.AuthHeaders(ctx))
	var httpErr *backend.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAdminClientCRUD(t *testing.T) {
	client, _ := newStubClient(t)
	ctx := context.Background()

	resp, err := client.Login(ctx, domain.Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	admin := backend.NewAdminClient(client, staticHeaders{token: resp.Token})

	stats, err := admin.Dashboard(ctx)
	if err != nil || stats.TotalUsers != 2 {
		t.Fatalf("dashboard: %+v %v", stats, err)
	}

	user, err := admin.CreateUser(ctx, domain.UserRequest{Username: "jane", Password: "pw", Email: "jane@example.com", FullName: "Jane", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := admin.UpdateUser(ctx, user.ID, domain.UserRequest{Username: "jane", Email: "jane@corp.example", FullName: "Jane R", Role: domain.RoleUser}); err != nil {
		t.Fatalf("update user: %v", err)
	}
	got, err := admin.GetUser(ctx, user.ID)
	if err != nil || got.Email != "jane@corp.example" {
		t.Fatalf("get user: %+v %v", got, err)
	}
	if err := admin.ToggleUserStatus(ctx, user.ID); err != nil {
		t.Fatalf("toggle user: %v", err)
	}
	if _, err := admin.AssignPackage(ctx, user.ID, domain.PackageRequest{Name: "Custom", Description: "d", Price: 1, DataLimitGB: 1, VoiceMinutes: 1, SMSCount: 1}); err != nil {
		t.Fatalf("assign package: %v", err)
	}

	pkg, err := admin.CreatePackage(ctx, domain.PackageRequest{Name: "Weekend", Description: "d", Price: 2.5})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	if _, err := admin.UpdatePackage(ctx, pkg.ID, domain.PackageRequest{Name: "Weekend+", Description: "d", Price: 3}); err != nil {
		t.Fatalf("update package: %v", err)
	}
	if err := admin.TogglePackageStatus(ctx, pkg.ID); err != nil {
		t.Fatalf("toggle package: %v", err)
	}
	pkgs, err := admin.ListPackages(ctx)
	if err != nil || len(pkgs) != 4 {
		t.Fatalf("list packages: %d %v", len(pkgs), err)
	}
	if err := admin.DeletePackage(ctx, pkg.ID); err != nil {
		t.Fatalf("delete package: %v", err)
	}

	inquiries, err := admin.ListInquiries(ctx)
	if err != nil || len(inquiries) != 1 {
		t.Fatalf("list inquiries: %v", err)
	}
	if err := admin.RespondInquiry(ctx, inquiries[0].ID, "On it"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if err := admin.UpdateInquiryStatus(ctx, inquiries[0].ID, domain.InquiryStatusClosed); err != nil {
		t.Fatalf("status: %v", err)
	}

	if err := admin.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	users, err := admin.ListUsers(ctx)
	if err != nil || len(users) != 2 {
		t.Fatalf("list users: %d %v", len(users), err)
	}
}

func TestAdminClientFailuresAreTransportErrors(t *testing.T) {
	client, _ := newStubClient(t)
	admin := backend.NewAdminClient(client, staticHeaders{})

	_, err := admin.ListInquiries(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var te *backend.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	var httpErr *backend.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrapped 401, got %v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := backend.NewClient(config.BackendConfig{BaseURL: url, TimeoutSeconds: 1}, nil, nil, nil)
	_, err := client.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestRequestIDIsForwarded(t *testing.T) {
	seen := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(observability.RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalUsers":1,"totalPackages":0,"activePackages":0}`))
	}))
	defer ts.Close()

	client := backend.NewClient(config.BackendConfig{BaseURL: ts.URL}, &http.Client{Timeout: time.Second}, nil, nil)
	admin := backend.NewAdminClient(client, staticHeaders{token: "t"})

	ctx := backend.WithRequestID(context.Background(), "req-123")
	if _, err := admin.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if id := <-seen; id != "req-123" {
		t.Fatalf("request id = %q", id)
	}
}

func TestErrorBodyFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message":"User not found"}`, want: "User not found"},
		{name: "error string", body: `{"error":"Bad request"}`, want: "Bad request"},
		{name: "nested error", body: `{"error":{"code":"X","message":"Nested"}}`, want: "Nested"},
		{name: "plain text", body: "gateway down", want: "gateway down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := backend.NewClient(config.BackendConfig{BaseURL: ts.URL}, nil, nil, nil)
			_, err := client.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})
			if got := backend.Message(err, "fallback"); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}
