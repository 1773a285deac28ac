package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
)

// JWKSVerifier validates Cognito ID tokens locally against the pool's
// published signing keys.
type JWKSVerifier struct {
	keyfunc  jwt.Keyfunc
	issuer   string
	audience string
	methods  []string
}

// NewJWKSVerifier downloads the signing keys at jwksURL and keeps them
// refreshed in the background.
func NewJWKSVerifier(jwksURL, issuer, clientID string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return newVerifier(jwks.Keyfunc, issuer, clientID, []string{"RS256"}), nil
}

func newVerifier(kf jwt.Keyfunc, issuer, audience string, methods []string) *JWKSVerifier {
	return &JWKSVerifier{
		keyfunc:  kf,
		issuer:   issuer,
		audience: audience,
		methods:  methods,
	}
}

// Verify parses AND validates the signature, issuer, audience and expiry.
// Only ID tokens are accepted.
func (v *JWKSVerifier) Verify(_ context.Context, raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, v.keyfunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	if use := getValue(claims, "token_use"); use != "id" {
		return nil, fmt.Errorf("unexpected token_use %q", use)
	}

	sub := getValue(claims, "sub")
	if sub == "" {
		return nil, errors.New("token has no subject")
	}

	tokenID := getValue(claims, "origin_jti")
	if tokenID == "" {
		tokenID = getValue(claims, "jti")
	}

	return &Claims{
		Subject:   sub,
		Email:     getValue(claims, "email"),
		TokenID:   tokenID,
		ExpiresAt: getInt64(claims, "exp"),
	}, nil
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
