package access

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"alumninet/cmd/internal/domain/entity"
)

type mockVerifier struct {
	claims *Claims
	err    error
	calls  int
}

func (m *mockVerifier) Verify(_ context.Context, raw string) (*Claims, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

type mockRoles struct {
	role  *entity.ProfileRole
	err   error
	calls int
}

func (m *mockRoles) GetProfileRole(_ context.Context, _ string) (*entity.ProfileRole, error) {
	m.calls++
	return m.role, m.err
}

type mockRevocations struct {
	revoked bool
	err     error
}

func (m *mockRevocations) IsRevoked(_ context.Context, _ string) (bool, error) {
	return m.revoked, m.err
}

func validClaims() *Claims {
	return &Claims{Subject: "sub-1", Email: "ada@alumni.edu", TokenID: "sess-1", ExpiresAt: 1900000000}
}

func requestWithCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: IDTokenCookie, Value: token})
	}
	return req
}

func TestResolve_NoToken(t *testing.T) {
	verifier := &mockVerifier{claims: validClaims()}
	roles := &mockRoles{role: &entity.ProfileRole{Role: entity.RoleAdmin}}
	resolver := NewSessionResolver(verifier, roles, nil)

	sess := resolver.Resolve(context.Background(), requestWithCookie(""))

	if sess.State != Anonymous {
		t.Errorf("expected anonymous, got %s", sess.State)
	}
	if verifier.calls != 0 || roles.calls != 0 {
		t.Error("expected no lookups without a token")
	}
}

func TestResolve_States(t *testing.T) {
	tests := []struct {
		name      string
		verifyErr error
		role      *entity.ProfileRole
		roleErr   error
		revoked   *mockRevocations
		want      State
	}{
		{"member", nil, &entity.ProfileRole{Role: entity.RoleMember, IsVerified: true}, nil, nil, Member},
		{"admin", nil, &entity.ProfileRole{Role: entity.RoleAdmin}, nil, nil, Admin},
		{"unknown role reads as member", nil, &entity.ProfileRole{Role: "superuser"}, nil, nil, Member},
		{"empty role reads as member", nil, &entity.ProfileRole{}, nil, nil, Member},
		{"invalid token", errors.New("bad signature"), nil, nil, nil, Anonymous},
		{"missing profile", nil, nil, nil, nil, Anonymous},
		{"lookup error", nil, nil, errors.New("connection refused"), nil, Anonymous},
		{"revoked session", nil, &entity.ProfileRole{Role: entity.RoleAdmin}, nil, &mockRevocations{revoked: true}, Anonymous},
		{"revocation check error", nil, &entity.ProfileRole{Role: entity.RoleAdmin}, nil, &mockRevocations{err: errors.New("redis down")}, Anonymous},
		{"not revoked", nil, &entity.ProfileRole{Role: entity.RoleAdmin}, nil, &mockRevocations{}, Admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{claims: validClaims(), err: tt.verifyErr}
			roles := &mockRoles{role: tt.role, err: tt.roleErr}

			var resolver *SessionResolver
			if tt.revoked != nil {
				resolver = NewSessionResolver(verifier, roles, tt.revoked)
			} else {
				resolver = NewSessionResolver(verifier, roles, nil)
			}

			sess := resolver.Resolve(context.Background(), requestWithCookie("token"))
			if sess == nil {
				t.Fatal("expected a session, got nil")
			}
			if sess.State != tt.want {
				t.Errorf("expected %s, got %s", tt.want, sess.State)
			}
			if sess.State == Anonymous && sess.IdentityID != "" {
				t.Errorf("anonymous session leaked identity %q", sess.IdentityID)
			}
		})
	}
}

func TestResolve_CarriesClaims(t *testing.T) {
	roles := &mockRoles{role: &entity.ProfileRole{Role: entity.RoleMember, IsVerified: true}}
	resolver := NewSessionResolver(&mockVerifier{claims: validClaims()}, roles, nil)

	sess := resolver.Resolve(context.Background(), requestWithCookie("token"))

	if sess.IdentityID != "sub-1" || sess.Email != "ada@alumni.edu" {
		t.Errorf("unexpected identity: %+v", sess)
	}
	if !sess.Verified {
		t.Error("expected verified flag to be carried")
	}
	if sess.TokenID != "sess-1" {
		t.Errorf("expected token id sess-1, got %q", sess.TokenID)
	}
}

func TestResolve_FailClosedOnAdminPath(t *testing.T) {
	policy := DefaultPolicy()
	roles := &mockRoles{err: errors.New("timeout")}
	resolver := NewSessionResolver(&mockVerifier{claims: validClaims()}, roles, nil)

	sess := resolver.Resolve(context.Background(), requestWithCookie("token"))

	if policy.Decide("/admin", sess.State) == Allowed {
		t.Fatal("admin path allowed after a failed role lookup")
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie", "abc", "", "abc"},
		{"cookie wins over header", "abc", "Bearer xyz", "abc"},
		{"bearer header", "", "Bearer xyz", "xyz"},
		{"lowercase scheme", "", "bearer xyz", "xyz"},
		{"other scheme", "", "Basic xyz", ""},
		{"bare bearer", "", "Bearer ", ""},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithCookie(tt.cookie)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := TokenFromRequest(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
