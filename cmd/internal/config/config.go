// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// CognitoConfig holds the identity provider settings.
type CognitoConfig struct {
	Region      string
	UserPoolID  string
	AppClientID string
}

// Issuer is the token issuer Cognito stamps on every ID token of the pool.
func (c CognitoConfig) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL is where Cognito publishes the pool signing keys.
func (c CognitoConfig) JWKSURL() string {
	return c.Issuer() + "/.well-known/jwks.json"
}

// StorageConfig holds the avatar bucket settings.
type StorageConfig struct {
	Region        string
	Bucket        string
	PublicBaseURL string
}

// RedisConfig holds the session revocation list connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig selects the gorm dialect from the URL scheme.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// AccessConfig holds the route guard prefixes and redirect targets.
type AccessConfig struct {
	AdminPrefixes    []string
	MemberPrefixes   []string
	LoginPath        string
	UnauthorizedPath string
}

type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	PublicBaseURL string
	MachineID     int64
	CookieSecure  bool

	// WebSocketEndpoint is the API Gateway management endpoint. Empty disables push.
	WebSocketEndpoint string
	WebSocketRegion   string
	// WebSocketSecret is the shared secret the gateway integration sends
	// on every /ws request.
	WebSocketSecret string

	Database DatabaseConfig
	Cognito  CognitoConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Access   AccessConfig
}

// Load reads configuration from environment variables.
// It fails fast with clear errors for missing required values.
func Load() (*Config, error) {
	var missing []string

	require := func(key string) string {
		val := strings.TrimSpace(os.Getenv(key))
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}

	env := getEnv("GO_ENV", EnvDevelopment)
	if env != EnvDevelopment && env != EnvProduction {
		return nil, fmt.Errorf("invalid GO_ENV value %q: must be %s or %s", env, EnvDevelopment, EnvProduction)
	}

	cognito := CognitoConfig{
		Region:      require("AWS_COGNITO_REGION"),
		UserPoolID:  require("COGNITO_USER_POOL_ID"),
		AppClientID: require("COGNITO_APP_CLIENT_ID"),
	}

	storage := StorageConfig{
		Region: require("AWS_S3_REGION"),
		Bucket: require("S3_BUCKET_NAME"),
	}

	redisAddr := require("REDIS_ADDR")

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	storage.PublicBaseURL = getEnv("AVATAR_PUBLIC_BASE_URL",
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com", storage.Bucket, storage.Region))

	dbURL := getEnv("DATABASE_URL", "sqlite://alumninet.db")
	if err := validateDatabaseURL(dbURL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	publicBaseURL := strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:7070"), "/")
	if err := validateHTTPURL(publicBaseURL); err != nil {
		return nil, fmt.Errorf("invalid PUBLIC_BASE_URL: %w", err)
	}

	access := AccessConfig{
		AdminPrefixes:    getEnvList("ADMIN_PREFIXES", []string{"/admin"}),
		MemberPrefixes:   getEnvList("MEMBER_PREFIXES", []string{"/profile", "/directory"}),
		LoginPath:        getEnv("LOGIN_PATH", "/login"),
		UnauthorizedPath: getEnv("UNAUTHORIZED_PATH", "/unauthorized"),
	}
	if err := validateAccess(access); err != nil {
		return nil, err
	}

	wsEndpoint := strings.TrimSpace(os.Getenv("WS_GATEWAY_ENDPOINT"))
	wsSecret := strings.TrimSpace(os.Getenv("WS_GATEWAY_SECRET"))
	if wsEndpoint != "" && wsSecret == "" {
		return nil, fmt.Errorf("WS_GATEWAY_SECRET is required when WS_GATEWAY_ENDPOINT is set")
	}

	machineID, err := strconv.ParseInt(getEnv("MACHINE_ID", "1"), 10, 64)
	if err != nil || machineID < 0 || machineID > 1023 {
		return nil, fmt.Errorf("invalid MACHINE_ID: must be an integer in [0, 1023]")
	}

	return &Config{
		Port:              getEnv("PORT", "7070"),
		Environment:       env,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:     publicBaseURL,
		MachineID:         machineID,
		CookieSecure:      getEnvBool("COOKIE_SECURE", env == EnvProduction),
		WebSocketEndpoint: wsEndpoint,
		WebSocketRegion:   getEnv("WS_GATEWAY_REGION", cognito.Region),
		WebSocketSecret:   wsSecret,
		Database: DatabaseConfig{
			URL:          dbURL,
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 2),
		},
		Cognito: cognito,
		Storage: storage,
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Access: access,
	}, nil
}

// validateDatabaseURL accepts sqlite://<path> for local runs and
// postgres(ql)://host/db for the hosted backend.
func validateDatabaseURL(dbURL string) error {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	switch parsed.Scheme {
	case "sqlite":
		if strings.TrimPrefix(dbURL, "sqlite://") == "" {
			return fmt.Errorf("sqlite URL must include a file path")
		}
	case "postgres", "postgresql":
		if parsed.Host == "" {
			return fmt.Errorf("URL must include a host")
		}
	default:
		return fmt.Errorf("URL must use sqlite, postgres or postgresql scheme, got %q", parsed.Scheme)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

// validateAccess rejects prefixes that are not absolute paths and redirect
// targets that would themselves be guarded (a redirect loop).
func validateAccess(a AccessConfig) error {
	if len(a.AdminPrefixes) == 0 {
		return fmt.Errorf("ADMIN_PREFIXES cannot be empty")
	}

	all := append(append([]string{}, a.AdminPrefixes...), a.MemberPrefixes...)
	for _, p := range all {
		if !strings.HasPrefix(p, "/") || p == "/" {
			return fmt.Errorf("invalid guarded prefix %q: must be an absolute path other than /", p)
		}
	}

	for _, target := range []string{a.LoginPath, a.UnauthorizedPath} {
		if !strings.HasPrefix(target, "/") {
			return fmt.Errorf("invalid redirect path %q: must be absolute", target)
		}
		for _, p := range all {
			if strings.HasPrefix(target, p) {
				return fmt.Errorf("redirect path %q is guarded by prefix %q", target, p)
			}
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvList reads a comma separated list, dropping blanks.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if strings.TrimSpace(val) == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
