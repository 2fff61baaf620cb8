package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/services"
)

type eventSink struct {
	mu     sync.Mutex
	events []*services.SecurityEvent
}

func (s *eventSink) Enqueue(e *services.SecurityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *eventSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

func firewallRouter(sink *eventSink) *gin.Engine {
	router := gin.New()
	router.Use(Firewall(config.DefaultFirewallPatterns, sink))
	router.GET("/api/projects", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func TestFirewall_BlocksQueryPatterns(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"union select encoded", "q=1%20UNION%20SELECT%20password"},
		{"union select plus", "q=1+union+select+1"},
		{"script tag", "name=%3Cscript%3Ealert(1)"},
		{"path traversal", "file=../../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &eventSink{}
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/projects?"+tt.query, nil)
			firewallRouter(sink).ServeHTTP(w, req)

			if w.Code != http.StatusForbidden {
				t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
			}
			if !strings.Contains(w.Body.String(), "Malicious pattern detected in URL") {
				t.Errorf("unexpected body %s", w.Body.String())
			}
			if types := sink.types(); len(types) != 1 || types[0] != models.SecurityEventFirewallBlock {
				t.Errorf("expected one FIREWALL_BLOCK event, got %v", types)
			}
		})
	}
}

func TestFirewall_BlocksHeaderPatterns(t *testing.T) {
	sink := &eventSink{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("X-Forwarded-Note", "javascript:void(0)")
	firewallRouter(sink).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	e := sink.events[0]
	if e.Details["source"] != "header:x-forwarded-note" || e.Details["pattern"] != "javascript:" {
		t.Errorf("unexpected details %v", e.Details)
	}
	if e.Path != "/api/projects" || e.Method != "GET" {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestFirewall_PassesCleanRequests(t *testing.T) {
	sink := &eventSink{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/projects?status=Active&page=2", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	firewallRouter(sink).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if len(sink.events) != 0 {
		t.Errorf("expected no events, got %v", sink.types())
	}
}

func TestFirewall_NilRecorder(t *testing.T) {
	router := gin.New()
	router.Use(Firewall([]string{"drop table"}, nil))
	router.GET("/x", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/x?q=DROP%20TABLE%20users", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/health", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	expected := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"X-XSS-Protection":       "1; mode=block",
	}
	for header, value := range expected {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, expected %q", header, got, value)
		}
	}
	for _, header := range []string{"Content-Security-Policy", "Strict-Transport-Security"} {
		if w.Header().Get(header) == "" {
			t.Errorf("%s should be set", header)
		}
	}
}
