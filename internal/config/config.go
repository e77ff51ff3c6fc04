package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer        string        `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL       string        `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience      string        `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey    string        `mapstructure:"AUTH_SIGNING_KEY"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	AssetBackend      string        `mapstructure:"ASSET_BACKEND"`
	AssetDir          string        `mapstructure:"ASSET_DIR"`
	AssetS3Bucket     string        `mapstructure:"ASSET_S3_BUCKET"`
	AssetS3Prefix     string        `mapstructure:"ASSET_S3_PREFIX"`
	AssetMaxBytes     int64         `mapstructure:"ASSET_MAX_BYTES"`
	ClinicName        string        `mapstructure:"CLINIC_NAME"`
	ReportRedirectURL string        `mapstructure:"REPORT_REDIRECT_URL"`
	BodyLimitBytes    int64         `mapstructure:"BODY_LIMIT_BYTES"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ReportRateLimit   int           `mapstructure:"REPORT_RATE_LIMIT"`
	ReportRateBurst   int           `mapstructure:"REPORT_RATE_BURST"`
}

var envKeys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"AUTH_ISSUER", "AUTH_JWKS_URL", "AUTH_AUDIENCE", "AUTH_SIGNING_KEY",
	"CORS_ORIGINS", "ASSET_BACKEND", "ASSET_DIR", "ASSET_S3_BUCKET",
	"ASSET_S3_PREFIX", "ASSET_MAX_BYTES", "CLINIC_NAME", "REPORT_REDIRECT_URL",
	"BODY_LIMIT_BYTES", "REQUEST_TIMEOUT", "REPORT_RATE_LIMIT", "REPORT_RATE_BURST",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("ASSET_BACKEND", "fs")
	v.SetDefault("ASSET_DIR", "./uploads")
	v.SetDefault("ASSET_S3_PREFIX", "assets/")
	v.SetDefault("ASSET_MAX_BYTES", 5*1024*1024)
	v.SetDefault("CLINIC_NAME", "Occupational Health Clinic")
	v.SetDefault("REPORT_REDIRECT_URL", "/")
	v.SetDefault("BODY_LIMIT_BYTES", 1<<20)
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("REPORT_RATE_LIMIT", 30)
	v.SetDefault("REPORT_RATE_BURST", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: requests without a bearer token are treated as an admin user.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks settings that depend on each other. Outside development
// some form of token verification must be configured, and the asset backend
// must have its location.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" && c.AuthJWKSURL == "" && c.AuthSigningKey == "" {
		return fmt.Errorf("one of AUTH_ISSUER, AUTH_JWKS_URL or AUTH_SIGNING_KEY is required when ENV=%q", c.Env)
	}

	switch c.AssetBackend {
	case "fs":
		if c.AssetDir == "" {
			return fmt.Errorf("ASSET_DIR is required when ASSET_BACKEND is \"fs\"")
		}
	case "s3":
		if c.AssetS3Bucket == "" {
			return fmt.Errorf("ASSET_S3_BUCKET is required when ASSET_BACKEND is \"s3\"")
		}
	case "memory":
		if !c.IsDev() {
			return fmt.Errorf("ASSET_BACKEND \"memory\" is only allowed in development")
		}
	default:
		return fmt.Errorf("ASSET_BACKEND must be \"fs\", \"s3\" or \"memory\", got %q", c.AssetBackend)
	}

	if c.AssetMaxBytes <= 0 {
		return fmt.Errorf("ASSET_MAX_BYTES must be positive, got %d", c.AssetMaxBytes)
	}
	return nil
}
