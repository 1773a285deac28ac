package access

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIssuer   = "https://cognito-idp.us-east-2.amazonaws.com/us-east-2_test"
	testClientID = "client-123"
)

var testSecret = []byte("test-signing-secret")

func testVerifier() *JWKSVerifier {
	kf := func(*jwt.Token) (any, error) { return testSecret, nil }
	return newVerifier(kf, testIssuer, testClientID, []string{"HS256"})
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func idTokenClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":        "sub-1",
		"email":      "ada@alumni.edu",
		"iss":        testIssuer,
		"aud":        testClientID,
		"token_use":  "id",
		"jti":        "jti-1",
		"origin_jti": "origin-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWKSVerifier_Valid(t *testing.T) {
	claims, err := testVerifier().Verify(context.Background(), sign(t, idTokenClaims()))
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.Subject != "sub-1" || claims.Email != "ada@alumni.edu" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenID != "origin-1" {
		t.Errorf("expected origin_jti as token id, got %q", claims.TokenID)
	}
	if claims.ExpiresAt == 0 {
		t.Error("expected expiry to be carried")
	}
}

func TestJWKSVerifier_FallsBackToJTI(t *testing.T) {
	c := idTokenClaims()
	delete(c, "origin_jti")

	claims, err := testVerifier().Verify(context.Background(), sign(t, c))
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.TokenID != "jti-1" {
		t.Errorf("expected jti as token id, got %q", claims.TokenID)
	}
}

func TestJWKSVerifier_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"expired", func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() }},
		{"no expiry", func(c jwt.MapClaims) { delete(c, "exp") }},
		{"wrong issuer", func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" }},
		{"wrong audience", func(c jwt.MapClaims) { c["aud"] = "other-client" }},
		{"access token", func(c jwt.MapClaims) { c["token_use"] = "access" }},
		{"no subject", func(c jwt.MapClaims) { delete(c, "sub") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := idTokenClaims()
			tt.mutate(c)

			if _, err := testVerifier().Verify(context.Background(), sign(t, c)); err == nil {
				t.Error("expected token to be rejected")
			}
		})
	}
}

func TestJWKSVerifier_RejectsForeignSignature(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, idTokenClaims()).SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := testVerifier().Verify(context.Background(), token); err == nil {
		t.Error("expected token signed with a foreign key to be rejected")
	}
}

func TestJWKSVerifier_RejectsGarbage(t *testing.T) {
	if _, err := testVerifier().Verify(context.Background(), "not-a-jwt"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}
