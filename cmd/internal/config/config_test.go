package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_COGNITO_REGION", "us-east-2")
	t.Setenv("COGNITO_USER_POOL_ID", "us-east-2_AbCdEf123")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client-123")
	t.Setenv("AWS_S3_REGION", "us-east-2")
	t.Setenv("S3_BUCKET_NAME", "alumni-avatars")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoad_Success(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("expected default port 7070, got %s", cfg.Port)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected development environment, got %s", cfg.Environment)
	}
	if cfg.Database.URL != "sqlite://alumninet.db" {
		t.Errorf("expected sqlite default, got %s", cfg.Database.URL)
	}
	if cfg.CookieSecure {
		t.Error("expected insecure cookies outside production by default")
	}
	if cfg.Storage.PublicBaseURL != "https://alumni-avatars.s3.us-east-2.amazonaws.com" {
		t.Errorf("unexpected avatar base url: %s", cfg.Storage.PublicBaseURL)
	}
	if cfg.Cognito.JWKSURL() != "https://cognito-idp.us-east-2.amazonaws.com/us-east-2_AbCdEf123/.well-known/jwks.json" {
		t.Errorf("unexpected jwks url: %s", cfg.Cognito.JWKSURL())
	}
}

func TestLoad_DefaultAccessPolicy(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(cfg.Access.AdminPrefixes) != 1 || cfg.Access.AdminPrefixes[0] != "/admin" {
		t.Errorf("unexpected admin prefixes: %v", cfg.Access.AdminPrefixes)
	}
	if len(cfg.Access.MemberPrefixes) != 2 {
		t.Errorf("unexpected member prefixes: %v", cfg.Access.MemberPrefixes)
	}
	if cfg.Access.LoginPath != "/login" || cfg.Access.UnauthorizedPath != "/unauthorized" {
		t.Errorf("unexpected redirect paths: %s %s", cfg.Access.LoginPath, cfg.Access.UnauthorizedPath)
	}
}

func TestLoad_GatewaySecret(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		secret   string
		wantErr  bool
	}{
		{"push disabled", "", "", false},
		{"endpoint without secret", "https://abc.execute-api.us-east-2.amazonaws.com/prod", "", true},
		{"endpoint with secret", "https://abc.execute-api.us-east-2.amazonaws.com/prod", "s3cret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("WS_GATEWAY_ENDPOINT", tt.endpoint)
			t.Setenv("WS_GATEWAY_SECRET", tt.secret)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "WS_GATEWAY_SECRET") {
					t.Fatalf("expected WS_GATEWAY_SECRET error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.WebSocketSecret != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, cfg.WebSocketSecret)
			}
		})
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("AWS_COGNITO_REGION", "us-east-2")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing variables, got nil")
	}

	for _, key := range []string{"COGNITO_USER_POOL_ID", "COGNITO_APP_CLIENT_ID", "S3_BUCKET_NAME", "REDIS_ADDR"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error message should mention %s, got: %v", key, err)
		}
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("GO_ENV", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid GO_ENV")
	}
}

func TestLoad_ProductionSecureCookies(t *testing.T) {
	setRequired(t)
	t.Setenv("GO_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies in production")
	}
}

func TestLoad_InvalidDatabaseURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError string
	}{
		{"unknown scheme", "mysql://localhost/db", "must use sqlite, postgres or postgresql"},
		{"postgres without host", "postgres:///db", "must include a host"},
		{"empty sqlite path", "sqlite://", "must include a file path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("DATABASE_URL", tt.url)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("expected error containing %q, got %v", tt.expectError, err)
			}
		})
	}
}

func TestLoad_GuardedRedirectTargetRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("LOGIN_PATH", "/profile/login")

	_, err := Load()
	if err == nil {
		t.Fatal("expected redirect loop to be rejected")
	}
	if !strings.Contains(err.Error(), "guarded") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_CustomPrefixes(t *testing.T) {
	setRequired(t)
	t.Setenv("MEMBER_PREFIXES", "/profile, /directory, /mentors ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := []string{"/profile", "/directory", "/mentors"}
	if len(cfg.Access.MemberPrefixes) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Access.MemberPrefixes)
	}
	for i := range want {
		if cfg.Access.MemberPrefixes[i] != want[i] {
			t.Errorf("expected %v, got %v", want, cfg.Access.MemberPrefixes)
		}
	}
}

func TestLoad_InvalidMachineID(t *testing.T) {
	setRequired(t)
	t.Setenv("MACHINE_ID", "4096")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out of range MACHINE_ID")
	}
}
