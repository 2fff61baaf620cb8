package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/identity"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/nexlayer/backend/pkg/response"
)

const (
	ContextPrincipal = "principal"
	ContextUserID    = logger.UserIDKey
)

// Authenticator turns a bearer credential into a principal on the gin context.
type Authenticator struct {
	verifier identity.Verifier
	resolver *identity.Resolver
}

func NewAuthenticator(verifier identity.Verifier, resolver *identity.Resolver) *Authenticator {
	return &Authenticator{verifier: verifier, resolver: resolver}
}

func (a *Authenticator) principal(c *gin.Context) *authz.Principal {
	raw, ok := identity.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil
	}
	tok, err := a.verifier.Verify(c.Request.Context(), raw)
	if err != nil {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("bearer token rejected")
		return nil
	}
	return a.resolver.Resolve(c.Request.Context(), tok)
}

// Optional attaches a principal when the request carries a valid credential
// and lets anonymous requests through untouched.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := a.principal(c); p != nil {
			SetPrincipal(c, p)
		}
		c.Next()
	}
}

// Required rejects requests without a valid credential with 401.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := a.principal(c)
		if p == nil {
			response.Unauthorized(c, "Unauthenticated")
			c.Abort()
			return
		}
		SetPrincipal(c, p)
		c.Next()
	}
}

// SetPrincipal stores p and its id on the context.
func SetPrincipal(c *gin.Context, p *authz.Principal) {
	c.Set(ContextPrincipal, p)
	c.Set(ContextUserID, p.ID)
}

// GetPrincipal returns the caller, or nil for anonymous requests.
func GetPrincipal(c *gin.Context) *authz.Principal {
	if v, exists := c.Get(ContextPrincipal); exists {
		if p, ok := v.(*authz.Principal); ok {
			return p
		}
	}
	return nil
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
