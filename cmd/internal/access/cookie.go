package access

import (
	"net/http"
	"time"
)

const (
	IDTokenCookie      = "alumninet_id"
	AccessTokenCookie  = "alumninet_access"
	RefreshTokenCookie = "alumninet_refresh"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// Tokens is the set of tokens a sign-in or refresh hands out.
type Tokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RefreshTokenTTL matches the app client refresh token validity.
const RefreshTokenTTL = 30 * 24 * time.Hour

// SetCookies issues the session cookies. An empty refresh token leaves the
// existing refresh cookie untouched, since refresh flows do not rotate it.
func SetCookies(w http.ResponseWriter, t Tokens, opts CookieOptions) {
	opts = opts.normalize()

	setCookie(w, IDTokenCookie, t.IDToken, t.ExpiresAt, opts)
	setCookie(w, AccessTokenCookie, t.AccessToken, t.ExpiresAt, opts)
	if t.RefreshToken != "" {
		setCookie(w, RefreshTokenCookie, t.RefreshToken, time.Now().Add(RefreshTokenTTL), opts)
	}
}

// ClearCookies removes every session cookie from the client.
func ClearCookies(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	for _, name := range []string{IDTokenCookie, AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     opts.Path,
			Domain:   opts.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: opts.SameSite,
		})
	}
}

func setCookie(w http.ResponseWriter, name, value string, expiresAt time.Time, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// CookieValue returns the named cookie value, or "" when absent.
func CookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
