package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/identity"
	"github.com/nexlayer/backend/internal/utils"
)

const testSecret = "test-secret-for-middleware-testing"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuthenticator() *Authenticator {
	resolver := identity.NewResolver(identity.ClaimStrategy{}, identity.NewDefaultRoleStrategy("Member"))
	return NewAuthenticator(identity.NewLocalVerifier(testSecret), resolver)
}

func bearer(t *testing.T, uid, email, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(uid, email, "Tester", role, 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return "Bearer " + token
}

func TestRequired_NoHeader(t *testing.T) {
	router := gin.New()
	router.Use(newTestAuthenticator().Required())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequired_InvalidCredentials(t *testing.T) {
	router := gin.New()
	router.Use(newTestAuthenticator().Required())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	testCases := []string{
		"InvalidToken",
		"Basic token123",
		"Bearer",
		"Bearer not-a-jwt",
	}

	for _, authHeader := range testCases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", authHeader)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected status %d, got %d", authHeader, http.StatusUnauthorized, w.Code)
		}
	}
}

func TestRequired_ValidToken(t *testing.T) {
	auth := newTestAuthenticator()
	header := bearer(t, "uid-1", "boss@nexlayer.dev", "CEO")

	router := gin.New()
	router.Use(auth.Required())
	router.GET("/protected", func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			t.Fatal("expected a principal on the context")
		}
		if p.ID != "uid-1" || p.Role != authz.RoleCEO {
			t.Errorf("unexpected principal %+v", p)
		}
		if GetUserID(c) != "uid-1" {
			t.Errorf("GetUserID() = %q", GetUserID(c))
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", header)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequired_UnknownRoleFallsBackToDefault(t *testing.T) {
	auth := newTestAuthenticator()
	header := bearer(t, "uid-2", "dev@nexlayer.dev", "")

	router := gin.New()
	router.Use(auth.Required())
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, string(GetPrincipal(c).Role))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", header)
	router.ServeHTTP(w, req)

	if w.Body.String() != string(authz.RoleMember) {
		t.Errorf("expected role %q, got %q", authz.RoleMember, w.Body.String())
	}
}

func TestOptional(t *testing.T) {
	auth := newTestAuthenticator()

	router := gin.New()
	router.Use(auth.Optional())
	router.GET("/public", func(c *gin.Context) {
		if p := GetPrincipal(c); p != nil {
			c.String(200, p.ID)
			return
		}
		c.String(200, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "anonymous"},
		{"bad token", "Bearer garbage", "anonymous"},
		{"valid token", bearer(t, "uid-3", "c@x.dev", "Client"), "uid-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/public", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK || w.Body.String() != tt.want {
				t.Errorf("got %d %q, expected 200 %q", w.Code, w.Body.String(), tt.want)
			}
		})
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if GetPrincipal(c) != nil {
		t.Error("expected nil principal on a fresh context")
	}
	if GetUserID(c) != "" {
		t.Error("expected empty user id on a fresh context")
	}
}
