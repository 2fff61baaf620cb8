package identity

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthenticated is returned for any credential that cannot be trusted.
var ErrUnauthenticated = errors.New("unauthenticated")

// Token is the verified content of a bearer credential.
type Token struct {
	Subject string
	Email   string
	Name    string
	Role    string
	Claims  map[string]interface{}
}

// Verifier checks a raw bearer credential and returns its verified claims.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Token, error)
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
