// Package auth implements the identity token service and the capability
// gate applied in front of every operation. Tokens assert identity only;
// the caller's role is re-read from the user store on every gated request
// so role changes take effect without re-issuing credentials.
package auth

import (
	"net/http"
	"time"

	"real-estate-marketplace/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// TokenCookieName is the cookie the signed credential travels in.
const TokenCookieName = "token"

// Claims are the identity claims embedded in a token. Caller-supplied at
// issue time; there is deliberately no role claim.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited identity tokens.
// There is no revocation list: logout only tells the transport to drop
// the cookie, and a replayed token stays valid until natural expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the validity window tokens are issued with.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue produces a signed token embedding the supplied identity claims.
func (ts *TokenService) Issue(name, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.E(apperr.KindUnauthorized, "unexpected signing method")
		}
		return ts.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "invalid token", err)
	}
	if claims.Email == "" {
		return nil, apperr.E(apperr.KindUnauthorized, "invalid token")
	}
	return claims, nil
}

// SetTokenCookie binds a token to the response as an HTTP-only cookie.
// Cross-site frontends need SameSite=None, which browsers only accept
// over HTTPS, so secure deployments get None and local ones Strict.
func SetTokenCookie(c *gin.Context, token string, maxAge time.Duration, secure bool) {
	sameSite := http.SameSiteStrictMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(TokenCookieName, token, int(maxAge.Seconds()), "/", "", secure, true)
}

// ClearTokenCookie instructs the client transport to forget the
// credential. The token itself stays valid until expiry.
func ClearTokenCookie(c *gin.Context, secure bool) {
	sameSite := http.SameSiteStrictMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(TokenCookieName, "", -1, "/", "", secure, true)
}
