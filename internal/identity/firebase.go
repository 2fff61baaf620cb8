package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nexlayer/backend/pkg/logger"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// FirebaseVerifier validates Firebase ID tokens: RS256 signatures from the
// securetoken key set, audience equal to the project id and the matching issuer.
type FirebaseVerifier struct {
	projectID string
	keys      *KeySet
}

func NewFirebaseVerifier(projectID string, keys *KeySet) *FirebaseVerifier {
	return &FirebaseVerifier{projectID: projectID, keys: keys}
}

// Close releases the key set's background refresh.
func (v *FirebaseVerifier) Close() error {
	return v.keys.Close()
}

func (v *FirebaseVerifier) Verify(_ context.Context, raw string) (*Token, error) {
	if v.projectID == "" {
		return nil, errors.New("firebase project id is not configured")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		logger.Component("identity").Debug().Err(err).Msg("firebase token rejected")
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrUnauthenticated)
	}

	return &Token{
		Subject: sub,
		Email:   claimString(claims, "email"),
		Name:    claimString(claims, "name"),
		Role:    claimString(claims, "role"),
		Claims:  claims,
	}, nil
}
