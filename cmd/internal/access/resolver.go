package access

import (
	"context"
	"net/http"
	"strings"

	"alumninet/cmd/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Claims is what a verified session token says about its holder.
type Claims struct {
	Subject   string
	Email     string
	TokenID   string
	ExpiresAt int64
}

// TokenVerifier checks a raw session token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// RoleLookup reads the role attribute of an identity's profile.
// A missing profile is reported as (nil, nil).
type RoleLookup interface {
	GetProfileRole(ctx context.Context, identityID string) (*entity.ProfileRole, error)
}

// RevocationChecker reports whether a sign-in was ended before its tokens expired.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Resolver classifies the caller of a request. It never fails: anything
// that cannot be established with certainty resolves to Anonymous.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) *Session
}

type SessionResolver struct {
	verifier TokenVerifier
	roles    RoleLookup
	revoked  RevocationChecker
}

// NewSessionResolver builds a Resolver. revoked may be nil, in which case
// no revocation list is consulted.
func NewSessionResolver(verifier TokenVerifier, roles RoleLookup, revoked RevocationChecker) *SessionResolver {
	return &SessionResolver{
		verifier: verifier,
		roles:    roles,
		revoked:  revoked,
	}
}

func (s *SessionResolver) Resolve(ctx context.Context, r *http.Request) *Session {
	raw := TokenFromRequest(r)
	if raw == "" {
		return AnonymousSession()
	}

	claims, err := s.verifier.Verify(ctx, raw)
	if err != nil {
		log.Debugf("rejected session token on %s: %v", r.URL.Path, err)
		return AnonymousSession()
	}

	if s.revoked != nil && claims.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			log.Warnf("failed to check revocation of session %s: %v", claims.TokenID, err)
			return AnonymousSession()
		}
		if revoked {
			return AnonymousSession()
		}
	}

	role, err := s.roles.GetProfileRole(ctx, claims.Subject)
	if err != nil {
		log.Warnf("failed to look up role of %s: %v", claims.Subject, err)
		return AnonymousSession()
	}
	if role == nil {
		log.Warnf("identity %s holds a valid token but has no profile", claims.Subject)
		return AnonymousSession()
	}

	state := Member
	if entity.ParseRole(string(role.Role)).IsAdmin() {
		state = Admin
	}

	return &Session{
		State:      state,
		IdentityID: claims.Subject,
		Email:      claims.Email,
		Verified:   role.IsVerified,
		TokenID:    claims.TokenID,
		ExpiresAt:  claims.ExpiresAt,
	}
}

// TokenFromRequest reads the session token from the ID token cookie,
// falling back to an Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(CookieValue(r, IDTokenCookie)); v != "" {
		return v
	}

	header := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
