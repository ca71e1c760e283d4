package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "NaijaConnect"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultStorePath      = "naija_connect.db.json"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultAccessTTL      = 15 * time.Minute
	defaultRefreshTTL     = 7 * 24 * time.Hour
	defaultOTPLength      = 6
	defaultOTPTTL         = 600 * time.Second
	defaultExternalWait   = 15 * time.Second
	// defaultMinAirtime is the smallest airtime purchase in kobo (₦50).
	defaultMinAirtime = 5_000
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	// StorePath backs the file snapshot store; DatabaseURL, when set, selects
	// the Postgres snapshot store instead. RedisURL is optional and enables
	// the idempotency and rate-limit middlewares.
	StorePath   string
	DatabaseURL string
	RedisURL    string

	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OTPLength int
	OTPTTL    time.Duration

	VendorBaseURL    string
	VendorToken      string
	GatewayBaseURL   string
	GatewaySecretKey string
	CallbackURL      string
	// ExternalTimeout bounds every vendor/gateway call; on expiry the outcome
	// is ambiguous, never retried.
	ExternalTimeout time.Duration

	MinAirtimeMinor int64

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		StorePath:        getEnv("STORE_PATH", defaultStorePath),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		RefreshSecret:    getEnv("REFRESH_SECRET", "dev-refresh-secret"),
		AccessTokenTTL:   defaultAccessTTL,
		RefreshTokenTTL:  defaultRefreshTTL,
		OTPLength:        defaultOTPLength,
		OTPTTL:           defaultOTPTTL,
		VendorBaseURL:    os.Getenv("VENDOR_BASE_URL"),
		VendorToken:      os.Getenv("VENDOR_TOKEN"),
		GatewayBaseURL:   os.Getenv("GATEWAY_BASE_URL"),
		GatewaySecretKey: os.Getenv("GATEWAY_SECRET_KEY"),
		CallbackURL:      getEnv("GATEWAY_CALLBACK_URL", "http://localhost:3000"),
		ExternalTimeout:  defaultExternalWait,
		MinAirtimeMinor:  defaultMinAirtime,
		ShutdownPeriod:   defaultShutdownDelay,
		IdempotencyTTL:   defaultIdempotencyTTL,
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = secondsOrDurationEnv("OTP_TTL_SECONDS", "OTP_TTL", cfg.OTPTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = secondsOrDurationEnv("SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = secondsOrDurationEnv("IDEMPOTENCY_TTL_SECONDS", "IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.ExternalTimeout, err = durationEnv("EXTERNAL_TIMEOUT", cfg.ExternalTimeout); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("OTP_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 || n > 10 {
			return Config{}, fmt.Errorf("invalid OTP_LENGTH: %q", v)
		}
		cfg.OTPLength = n
	}

	if v := os.Getenv("MIN_AIRTIME_MINOR"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MIN_AIRTIME_MINOR: %q", v)
		}
		cfg.MinAirtimeMinor = n
	}

	if !cfg.IsDev() {
		if cfg.JWTSecret == "dev-secret" || cfg.RefreshSecret == "dev-refresh-secret" {
			return Config{}, fmt.Errorf("JWT_SECRET and REFRESH_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.GatewaySecretKey == "" {
			return Config{}, fmt.Errorf("GATEWAY_SECRET_KEY must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func secondsOrDurationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	return durationEnv(durationKey, fallback)
}
