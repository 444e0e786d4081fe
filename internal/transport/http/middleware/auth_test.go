package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
)

func newAuthRouter(t *testing.T, roles ...domain.Role) (*gin.Engine, *security.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := security.NewTokenIssuer(strings.Repeat("k", 32), 48, "codeclannigeria")
	if err != nil {
		t.Fatalf("create issuer: %v", err)
	}

	router := gin.New()
	chain := router.Group("/", RequireAuth(issuer))
	if len(roles) > 0 {
		chain.Use(RequireRoles(roles...))
	}
	chain.GET("/me", func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	return router, issuer
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	router, issuer := newAuthRouter(t)

	token, err := issuer.Issue(domain.User{ID: "user-1", Email: "ada@example.com", Role: domain.RoleMentor})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "MENTOR") {
		t.Fatalf("actor role missing from response: %s", rr.Body.String())
	}
}

func TestRequireAuthRejectsBadHeader(t *testing.T) {
	router, _ := newAuthRouter(t)

	cases := map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc",
		"empty token": "Bearer ",
		"garbage":     "Bearer not.a.jwt",
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rr.Code)
		}
	}
}

func TestRequireRolesBlocksWrongRole(t *testing.T) {
	router, issuer := newAuthRouter(t, domain.RoleAdmin)

	token, err := issuer.Issue(domain.User{ID: "user-1", Email: "ada@example.com", Role: domain.RoleMentee})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
