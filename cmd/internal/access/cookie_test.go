package access

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetCookies(t *testing.T) {
	rec := httptest.NewRecorder()

	SetCookies(rec, Tokens{
		IDToken:      "id",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, CookieOptions{Secure: true})

	cookies := rec.Result().Cookies()
	if len(cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly || !c.Secure {
			t.Errorf("cookie %s must be HttpOnly and Secure", c.Name)
		}
		if c.Path != "/" {
			t.Errorf("cookie %s has path %q", c.Name, c.Path)
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("cookie %s should default to SameSite=Lax", c.Name)
		}
	}
}

func TestSetCookies_KeepsRefreshWhenEmpty(t *testing.T) {
	rec := httptest.NewRecorder()

	SetCookies(rec, Tokens{IDToken: "id", AccessToken: "access", ExpiresAt: time.Now().Add(time.Hour)}, CookieOptions{})

	for _, c := range rec.Result().Cookies() {
		if c.Name == RefreshTokenCookie {
			t.Error("refresh cookie should not be overwritten")
		}
	}
}

func TestClearCookies(t *testing.T) {
	rec := httptest.NewRecorder()

	ClearCookies(rec, CookieOptions{})

	cookies := rec.Result().Cookies()
	if len(cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 || c.Value != "" {
			t.Errorf("cookie %s was not cleared", c.Name)
		}
	}
}
