package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant-picker/pkg/config"
	"restaurant-picker/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HeaderToken carries the bearer token on authenticated requests.
const HeaderToken = "X-Auth-Token"

// ContextUsername is the gin context key holding the authenticated user.
const ContextUsername = "username"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Auth handles authentication operations
type Auth struct {
	config *config.AuthConfig
	store  *store.Store
	now    func() time.Time
}

// New creates a new Auth instance
func New(cfg *config.AuthConfig, s *store.Store) *Auth {
	return &Auth{config: cfg, store: s, now: time.Now}
}

// ValidateCredentials checks username and password against the stored
// account and returns its token.
func (a *Auth) ValidateCredentials(username, password string) (string, error) {
	user, ok := a.store.User(username)
	if !ok || user.Password != password {
		return "", ErrInvalidCredentials
	}
	return user.Token, nil
}

// GenerateToken mints a token for a new account. Tokens never expire and
// are only trusted while present in the store.
func (a *Auth) GenerateToken(username string) (string, error) {
	if a.config.TokenFormat != config.TokenFormatJWT {
		return uuid.New().String(), nil
	}

	claims := jwt.RegisteredClaims{
		ID:       uuid.New().String(),
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(a.now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.config.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ResolveUser returns the username owning token.
func (a *Auth) ResolveUser(token string) (string, error) {
	username, ok := a.store.ResolveToken(token)
	if !ok {
		return "", ErrUnauthorized
	}
	return username, nil
}

// Middleware returns a Gin middleware for authentication
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := a.ResolveUser(c.GetHeader(HeaderToken))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextUsername, username)
		c.Next()
	}
}

// Username returns the user set by Middleware.
func Username(c *gin.Context) string {
	return c.GetString(ContextUsername)
}
