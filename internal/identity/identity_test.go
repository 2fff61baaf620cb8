package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/utils"
)

const testProject = "nexlayer-test"

type jwksServer struct {
	key   *rsa.PrivateKey
	kid   string
	hits  atomic.Int32
	down  atomic.Bool
	serve *httptest.Server
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	s := &jwksServer{key: key, kid: "kid-1"}
	s.serve = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.down.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": s.kid,
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(s.serve.Close)
	return s
}

func (s *jwksServer) sign(t *testing.T, claims jwt.MapClaims, kid string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	raw, err := tok.SignedString(s.key)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":   "firebase-uid",
		"aud":   testProject,
		"iss":   firebaseIssuerPrefix + testProject,
		"iat":   now.Add(-time.Minute).Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"email": "dev@nexlayer.dev",
		"name":  "Dev",
	}
}

func TestFirebaseVerifier_Valid(t *testing.T) {
	srv := newJWKSServer(t)
	v := NewFirebaseVerifier(testProject, NewKeySet(srv.serve.URL, nil))
	t.Cleanup(func() { v.Close() })

	claims := validClaims()
	claims["role"] = "CEO"
	tok, err := v.Verify(context.Background(), srv.sign(t, claims, srv.kid))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if tok.Subject != "firebase-uid" || tok.Email != "dev@nexlayer.dev" || tok.Name != "Dev" || tok.Role != "CEO" {
		t.Errorf("unexpected token %+v", tok)
	}

	if _, err := v.Verify(context.Background(), srv.sign(t, validClaims(), srv.kid)); err != nil {
		t.Fatal(err)
	}
	if hits := srv.hits.Load(); hits != 1 {
		t.Errorf("JWKS fetched %d times, expected cached keys", hits)
	}
}

func TestFirebaseVerifier_RetriesUnavailableKeySet(t *testing.T) {
	srv := newJWKSServer(t)
	srv.down.Store(true)
	v := NewFirebaseVerifier(testProject, NewKeySet(srv.serve.URL, nil))
	t.Cleanup(func() { v.Close() })

	raw := srv.sign(t, validClaims(), srv.kid)
	if _, err := v.Verify(context.Background(), raw); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Verify() with JWKS down error = %v, expected ErrUnauthenticated", err)
	}

	srv.down.Store(false)
	if _, err := v.Verify(context.Background(), raw); err != nil {
		t.Fatalf("Verify() after JWKS recovered error = %v", err)
	}
}

func TestFirebaseVerifier_Rejects(t *testing.T) {
	srv := newJWKSServer(t)
	v := NewFirebaseVerifier(testProject, NewKeySet(srv.serve.URL, nil))
	t.Cleanup(func() { v.Close() })

	mutate := func(f func(jwt.MapClaims)) jwt.MapClaims {
		c := validClaims()
		f(c)
		return c
	}

	tests := []struct {
		name string
		raw  func() string
	}{
		{"garbage", func() string { return "not.a.token" }},
		{"expired", func() string {
			return srv.sign(t, mutate(func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() }), srv.kid)
		}},
		{"missing exp", func() string {
			return srv.sign(t, mutate(func(c jwt.MapClaims) { delete(c, "exp") }), srv.kid)
		}},
		{"wrong audience", func() string {
			return srv.sign(t, mutate(func(c jwt.MapClaims) { c["aud"] = "other-project" }), srv.kid)
		}},
		{"wrong issuer", func() string {
			return srv.sign(t, mutate(func(c jwt.MapClaims) { c["iss"] = "https://evil.example" }), srv.kid)
		}},
		{"empty subject", func() string {
			return srv.sign(t, mutate(func(c jwt.MapClaims) { c["sub"] = "" }), srv.kid)
		}},
		{"unknown kid", func() string { return srv.sign(t, validClaims(), "kid-404") }},
		{"hs256", func() string {
			raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
			return raw
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.raw())
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Verify() error = %v, expected ErrUnauthenticated", err)
			}
		})
	}
}

func TestLocalVerifier(t *testing.T) {
	v := NewLocalVerifier("local-test-secret")
	raw, err := utils.GenerateToken("u-1", "ceo@nexlayer.dev", "Boss", "CEO", 1)
	if err != nil {
		t.Fatal(err)
	}

	tok, err := v.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if tok.Subject != "u-1" || tok.Role != "CEO" {
		t.Errorf("unexpected token %+v", tok)
	}

	if _, err := v.Verify(context.Background(), raw+"x"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("tampered token error = %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		if token != tt.token || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, token, ok)
		}
	}
}

func lookupReturning(user *models.User, err error) UserLookupFunc {
	return func(context.Context, string) (*models.User, error) { return user, err }
}

func TestResolver_StrategyOrder(t *testing.T) {
	cases := []struct {
		name   string
		tok    *Token
		lookup UserLookupFunc
		role   authz.Role
		title  string
	}{
		{
			name:   "claim wins over record",
			tok:    &Token{Subject: "u", Email: "a@x", Role: "CEO"},
			lookup: lookupReturning(&models.User{Role: "Client"}, nil),
			role:   authz.RoleCEO,
		},
		{
			name:   "record title kept as member",
			tok:    &Token{Subject: "u", Email: "a@x"},
			lookup: lookupReturning(&models.User{Role: "CTO"}, nil),
			role:   authz.RoleMember,
			title:  "CTO",
		},
		{
			name:   "record failure falls through to admin emails",
			tok:    &Token{Subject: "u", Email: "Boss@NexLayer.dev"},
			lookup: lookupReturning(nil, errors.New("store down")),
			role:   authz.RoleCEO,
		},
		{
			name:   "no record falls back to default",
			tok:    &Token{Subject: "u", Email: "new@x"},
			lookup: lookupReturning(nil, nil),
			role:   authz.RoleClient,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(
				ClaimStrategy{},
				NewUserRecordStrategy(tt.lookup),
				NewAdminEmailStrategy([]string{"boss@nexlayer.dev"}),
				NewDefaultRoleStrategy("Client"),
			)
			p := r.Resolve(context.Background(), tt.tok)
			if p == nil || p.ID != "u" {
				t.Fatalf("Resolve() = %+v", p)
			}
			if p.Role != tt.role || p.Title != tt.title {
				t.Errorf("role/title = %q/%q, expected %q/%q", p.Role, p.Title, tt.role, tt.title)
			}
		})
	}
}

func TestResolver_NameFromRecord(t *testing.T) {
	r := NewResolver(NewUserRecordStrategy(lookupReturning(&models.User{Role: "Member", DisplayName: "Rita"}, nil)))
	p := r.Resolve(context.Background(), &Token{Subject: "u", Email: "r@x"})
	if p.Name != "Rita" {
		t.Errorf("Name = %q, expected record display name", p.Name)
	}
}

func TestResolver_EmptySubject(t *testing.T) {
	r := NewResolver(NewDefaultRoleStrategy("CEO"))
	if p := r.Resolve(context.Background(), &Token{Email: "a@x"}); p != nil {
		t.Errorf("Resolve() = %+v, expected nil for empty subject", p)
	}
	if p := r.Resolve(context.Background(), nil); p != nil {
		t.Error("Resolve(nil) should be nil")
	}
}

func TestResolver_NoAnswerDefaultsToMember(t *testing.T) {
	p := NewResolver().Resolve(context.Background(), &Token{Subject: "u"})
	if p.Role != authz.RoleMember {
		t.Errorf("Role = %q, expected Member", p.Role)
	}
}

func TestDefaultRoleStrategy_InvalidFallsBackToMember(t *testing.T) {
	ans, ok := NewDefaultRoleStrategy("").Resolve(context.Background(), &Token{Subject: "u"})
	if !ok || ans.Role != authz.RoleMember {
		t.Errorf("Resolve() = %+v, %v", ans, ok)
	}
}
