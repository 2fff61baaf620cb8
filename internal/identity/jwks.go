package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nexlayer/backend/pkg/logger"
)

const (
	defaultJWKSTTL     = 6 * time.Hour
	jwksRefreshTimeout = 10 * time.Second
)

// KeySet serves public keys from a JWKS endpoint. The set is fetched on first
// use and refreshed in the background until Close is called.
type KeySet struct {
	url        string
	httpClient *http.Client

	mu     sync.Mutex
	jwks   *keyfunc.JWKS
	cancel context.CancelFunc
}

func NewKeySet(url string, httpClient *http.Client) *KeySet {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: jwksRefreshTimeout}
	}
	return &KeySet{url: url, httpClient: httpClient}
}

// Keyfunc resolves the verification key for a token by its kid header.
func (s *KeySet) Keyfunc(t *jwt.Token) (interface{}, error) {
	jwks, err := s.load()
	if err != nil {
		return nil, err
	}
	return jwks.Keyfunc(t)
}

// load fetches the set once. A failed fetch is retried on the next call.
func (s *KeySet) load() (*keyfunc.JWKS, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jwks != nil {
		return s.jwks, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.Get(s.url, keyfunc.Options{
		Ctx:             ctx,
		Client:          s.httpClient,
		RefreshInterval: defaultJWKSTTL,
		RefreshTimeout:  jwksRefreshTimeout,
		RefreshErrorHandler: func(err error) {
			logger.Component("identity").Warn().Err(err).Str("url", s.url).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	s.jwks, s.cancel = jwks, cancel
	return jwks, nil
}

// Close stops the background refresh.
func (s *KeySet) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.jwks.EndBackground()
		s.jwks, s.cancel = nil, nil
	}
	return nil
}
