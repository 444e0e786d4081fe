package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/config"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	httproutes "github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/routes"
)

func newTestEngine(t *testing.T) (*gin.Engine, *security.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := security.NewTokenIssuer(strings.Repeat("k", 32), 1, "codeclannigeria")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}
	engine := httproutes.Register(httproutes.Dependencies{
		Config:      cfg,
		Logger:      zap.NewNop(),
		TokenIssuer: issuer,
	})
	return engine, issuer
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessWithoutDependencies(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestEngine(t)

	paths := []string{
		"/api/v1/users/me",
		"/api/v1/tasks",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, w.Code)
		}
	}
}

func TestMentorshipAssignmentRequiresAdmin(t *testing.T) {
	r, issuer := newTestEngine(t)
	token := menteeToken(t, issuer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentorships", strings.NewReader(`{"mentor_id":"m1","mentee_id":"m2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin actor, got %d", w.Code)
	}
}

func menteeToken(t *testing.T, issuer *security.TokenIssuer) string {
	t.Helper()
	token, err := issuer.Issue(domain.User{
		ID:    "mentee-1",
		Email: "mentee@example.com",
		Role:  domain.RoleMentee,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}
