package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	consolehttp "github.com/telecom-ops/admin-console/internal/api/http"
	"github.com/telecom-ops/admin-console/internal/api/http/handlers"
	"github.com/telecom-ops/admin-console/internal/backend"
	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/domain"
	"github.com/telecom-ops/admin-console/internal/guard"
	"github.com/telecom-ops/admin-console/internal/observability"
	"github.com/telecom-ops/admin-console/internal/persistence"
	"github.com/telecom-ops/admin-console/internal/session"
	"github.com/telecom-ops/admin-console/internal/stub"
)

type console struct {
	app     *fiber.App
	session *session.Manager
	store   *persistence.MemoryTokenStore
	metrics *observability.Metrics
}

func newConsole(t *testing.T) *console {
	t.Helper()
	logger := zap.NewNop()

	srv, err := stub.New(config.StubConfig{
		JWTSecret:       "console-test",
		TokenTTLMinutes: 5,
		BcryptCost:      4,
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		AdminEmail:      "admin@example.com",
		AdminFullName:   "System Administrator",
	}, logger)
	if err != nil {
		t.Fatalf("stub: %v", err)
	}
	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	metrics := observability.NewMetrics()
	store := persistence.NewMemoryTokenStore()
	client := backend.NewClient(config.BackendConfig{BaseURL: ts.URL + stub.APIPrefix, TimeoutSeconds: 5}, nil, logger, metrics)
	mgr := session.NewManager(session.Dependencies{Store: store, API: client, Logger: logger, Metrics: metrics}, session.Options{})
	t.Cleanup(mgr.Wait)
	admin := backend.NewAdminClient(client, mgr)

	app := fiber.New()
	consolehttp.RegisterMiddlewares(app, logger, metrics, 0)
	consolehttp.RegisterRoutes(app, consolehttp.RouteConfig{
		Health:    handlers.NewHealthHandler("admin-console", "test", map[string]handlers.Pinger{"token_store": store}, metrics),
		Auth:      handlers.NewAuthHandler(mgr, logger),
		Dashboard: handlers.NewDashboardHandler(mgr, admin),
		Users:     handlers.NewUsersHandler(admin),
		Packages:  handlers.NewPackagesHandler(admin),
		Inquiries: handlers.NewInquiriesHandler(admin),
		Guard:     guard.New(mgr, mgr.LoginPath()),
		LoginPath: mgr.LoginPath(),
	})

	return &console{app: app, session: mgr, store: store, metrics: metrics}
}

func (c *console) request(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp, out
}

func (c *console) login(t *testing.T) {
	t.Helper()
	resp, body := c.request(t, http.MethodPost, "/login", `{"username":"admin","password":"admin123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d: %v", resp.StatusCode, body)
	}
	c.session.Wait()
}

func errorBody(t *testing.T, body map[string]any) (string, string) {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error body, got %v", body)
	}
	code, _ := e["code"].(string)
	message, _ := e["message"].(string)
	return code, message
}

func TestAnonymousNavigationRedirectsToLogin(t *testing.T) {
	c := newConsole(t)

	for _, path := range []string{"/", "/dashboard", "/users", "/users/1", "/packages", "/inquiries", "/does-not-exist"} {
		resp, _ := c.request(t, http.MethodGet, path, "")
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
			t.Fatalf("%s: status %d location %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}

	resp, body := c.request(t, http.MethodGet, "/login", "")
	if resp.StatusCode != http.StatusOK || body["view"] != "login" {
		t.Fatalf("login view: %d %v", resp.StatusCode, body)
	}
}

func TestLoginValidation(t *testing.T) {
	c := newConsole(t)

	resp, body := c.request(t, http.MethodPost, "/login", `{"username":"admin","password":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if _, msg := errorBody(t, body); msg != "Please enter both username and password" {
		t.Fatalf("message %q", msg)
	}

	resp, body = c.request(t, http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if code, msg := errorBody(t, body); code != "AUTHENTICATION_FAILED" || msg != "Invalid username or password" {
		t.Fatalf("error %s %q", code, msg)
	}
	if c.session.IsLoggedIn() {
		t.Fatalf("failed login must not open a session")
	}
}

func TestFormLogin(t *testing.T) {
	c := newConsole(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=admin&password=admin123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	c.session.Wait()
	if !c.session.IsAdmin() {
		t.Fatalf("form login should authenticate the admin")
	}
}

func TestLoginOpensDashboard(t *testing.T) {
	c := newConsole(t)

	resp, body := c.request(t, http.MethodPost, "/login", `{"username":"admin","password":"admin123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	if body["message"] != "Login successful! Redirecting..." || body["redirect"] != "/dashboard" {
		t.Fatalf("unexpected login body %v", body)
	}
	c.session.Wait()

	resp, body = c.request(t, http.MethodGet, "/session", "")
	if resp.StatusCode != http.StatusOK || body["state"] != "AUTHENTICATED" || body["isAdmin"] != true {
		t.Fatalf("session: %v", body)
	}

	resp, body = c.request(t, http.MethodGet, "/dashboard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status %d: %v", resp.StatusCode, body)
	}
	stats, _ := body["stats"].(map[string]any)
	if stats["totalUsers"] != float64(2) {
		t.Fatalf("stats: %v", stats)
	}
}

func TestUserAndPackageForms(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	resp, body := c.request(t, http.MethodPost, "/users", `{"username":"jane","password":"pw","email":"not-an-email","fullName":"Jane"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if _, msg := errorBody(t, body); msg != "Please enter a valid email address" {
		t.Fatalf("message %q", msg)
	}

	resp, body = c.request(t, http.MethodPost, "/users", `{"username":"jane","password":"pw","email":"jane@example.com","fullName":"Jane"}`)
	if resp.StatusCode != http.StatusCreated || body["message"] != "User created successfully" {
		t.Fatalf("create user: %d %v", resp.StatusCode, body)
	}

	resp, body = c.request(t, http.MethodPost, "/users", `{"username":"jane","password":"pw","email":"jane@example.com","fullName":"Jane"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("duplicate user: %d", resp.StatusCode)
	}
	if code, msg := errorBody(t, body); code != "TRANSPORT_ERROR" || msg != "User already exists" {
		t.Fatalf("duplicate error %s %q", code, msg)
	}

	resp, _ = c.request(t, http.MethodPost, "/packages", `{"name":"Free","description":"d","price":0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero price accepted: %d", resp.StatusCode)
	}
	resp, body = c.request(t, http.MethodPost, "/packages", `{"name":"Weekend","description":"d","price":2.5}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create package: %d %v", resp.StatusCode, body)
	}

	resp, _ = c.request(t, http.MethodGet, "/users/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id: %d", resp.StatusCode)
	}
	resp, body = c.request(t, http.MethodGet, "/users/999", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("missing user: %d", resp.StatusCode)
	}
	if _, msg := errorBody(t, body); msg != "User not found" {
		t.Fatalf("missing user message %q", msg)
	}
}

func TestAssignPackageFromTemplate(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	// john.doe is seeded as user 2 in the PREPAID category.
	resp, body := c.request(t, http.MethodPost, "/users/2/packages", `{"description":"Template","price":10,"dataLimitGB":5,"voiceMinutes":100,"smsCount":50}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("assign package: %d %v", resp.StatusCode, body)
	}
	if body["message"] != "Package created successfully" {
		t.Fatalf("message: %v", body["message"])
	}
	pkg, _ := body["data"].(map[string]any)
	if pkg["packageType"] != "PREPAID" {
		t.Fatalf("package type not taken from category: %v", pkg)
	}
	if pkg["name"] != "john.doe prepaid package" {
		t.Fatalf("generated name: %v", pkg["name"])
	}

	resp, body = c.request(t, http.MethodPost, "/users/2/packages", `{"description":"Template","price":10,"dataLimitGB":5,"voiceMinutes":100,"smsCount":50,"packageType":"POSTPAID"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("explicit type: %d %v", resp.StatusCode, body)
	}
	if pkg, _ := body["data"].(map[string]any); pkg["packageType"] != "POSTPAID" {
		t.Fatalf("explicit type overridden: %v", pkg)
	}

	resp, body = c.request(t, http.MethodPost, "/users/999/packages", `{"description":"Template","price":10,"dataLimitGB":5,"voiceMinutes":100,"smsCount":50}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("missing user: %d", resp.StatusCode)
	}
	if _, msg := errorBody(t, body); msg != "User not found" {
		t.Fatalf("missing user message %q", msg)
	}
}

func TestInquiryActions(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	resp, body := c.request(t, http.MethodGet, "/inquiries", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inquiries: %d", resp.StatusCode)
	}
	list, _ := body["data"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected one inquiry, got %v", body["data"])
	}

	resp, _ = c.request(t, http.MethodPost, "/inquiries/1/respond", `{"response":"  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank reply accepted: %d", resp.StatusCode)
	}
	resp, body = c.request(t, http.MethodPost, "/inquiries/1/respond", `{"response":"Refund issued"}`)
	if resp.StatusCode != http.StatusOK || body["message"] != "Response sent successfully" {
		t.Fatalf("respond: %d %v", resp.StatusCode, body)
	}
	resp, _ = c.request(t, http.MethodPut, "/inquiries/1/status", `{"status":"ARCHIVED"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown status accepted: %d", resp.StatusCode)
	}
	resp, body = c.request(t, http.MethodPut, "/inquiries/1/status", `{"status":"CLOSED"}`)
	if resp.StatusCode != http.StatusOK || body["message"] != "Inquiry status updated to CLOSED" {
		t.Fatalf("status: %d %v", resp.StatusCode, body)
	}
}

func TestBackendRejectionSurfacesAsTransportError(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	// The token disappears behind the session's back; the call goes out with "Bearer null".
	if err := c.store.Delete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	resp, body := c.request(t, http.MethodGet, "/packages", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if code, _ := errorBody(t, body); code != "TRANSPORT_ERROR" {
		t.Fatalf("code %s", code)
	}
	if !c.session.IsLoggedIn() {
		t.Fatalf("a failed admin call must not end the session")
	}
}

func TestLogoutRedirectsAndLocksViews(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	resp, _ := c.request(t, http.MethodPost, "/logout", "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("logout: %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if _, err := c.store.Load(context.Background()); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("token left after logout: %v", err)
	}

	resp, _ = c.request(t, http.MethodGet, "/users", "")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("users after logout: %d", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	c := newConsole(t)

	resp, body := c.request(t, http.MethodGet, "/health/live", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "alive" {
		t.Fatalf("live: %v", body)
	}
	resp, body = c.request(t, http.MethodGet, "/health/ready", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("ready: %v", body)
	}

	c.login(t)
	resp, body = c.request(t, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status %d", resp.StatusCode)
	}
	transitions, _ := body["transitions"].(map[string]any)
	if len(transitions) == 0 {
		t.Fatalf("expected session transitions in metrics: %v", body)
	}
	if resp.Header.Get(observability.RequestIDHeader) == "" {
		t.Fatalf("responses carry a request id")
	}
}
