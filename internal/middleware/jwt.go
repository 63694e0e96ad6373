package middleware

import (
	"errors"
	"fmt"
	"time"

	"shopdesk/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// JWTCustomClaims are the claims issued to API callers.
type JWTCustomClaims struct {
	Role       string `json:"role"`
	CustomerID string `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Validate is called by the jwt parser after the registered claims pass.
func (c *JWTCustomClaims) Validate() error {
	if c.Subject == "" {
		return errors.New("missing sub")
	}
	switch c.Role {
	case common.RoleAdmin, common.RoleStaff:
		return nil
	case common.RoleCustomer:
		if _, err := uuid.Parse(c.CustomerID); err != nil {
			return errors.New("customer token without a valid customer_id")
		}
		return nil
	}
	return fmt.Errorf("unknown role %q", c.Role)
}

// Principal converts verified claims into the request principal.
func (c *JWTCustomClaims) Principal() common.Principal {
	p := common.Principal{Subject: c.Subject, Role: c.Role}
	if id, err := uuid.Parse(c.CustomerID); err == nil {
		p.CustomerID = &id
	}
	return p
}

// NewJWTConfig verifies HS256 tokens with secret, or tokens signed by keys from
// keys when it is non-nil. The verified principal is stored in the request context.
func NewJWTConfig(secret string, keys jwt.Keyfunc) echojwt.Config {
	cfg := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*JWTCustomClaims)
			if !ok {
				return
			}
			ctx := common.WithPrincipal(c.Request().Context(), claims.Principal())
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("token rejected")
			return common.SendUnauthorizedError(c)
		},
	}
	if keys != nil {
		cfg.KeyFunc = keys
	} else {
		cfg.SigningKey = []byte(secret)
		cfg.SigningMethod = jwt.SigningMethodHS256.Alg()
	}
	return cfg
}

// NewJWKSKeyfunc fetches the key set at url and keeps it refreshed in the
// background. The returned stop function ends the refresh goroutine.
func NewJWKSKeyfunc(url string) (jwt.Keyfunc, func(), error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Str("jwks_url", url).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load jwks: %w", err)
	}
	return jwks.Keyfunc, jwks.EndBackground, nil
}

// SignHS256 mints a token for the given principal. Used by local tooling and tests.
func SignHS256(secret string, p common.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.CustomerID != nil {
		claims.CustomerID = p.CustomerID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
