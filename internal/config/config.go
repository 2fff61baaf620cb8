package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Security SecurityConfig `yaml:"security"`
	Sentry   SentryConfig   `yaml:"sentry"`
	Log      LogConfig      `yaml:"log"`
	Team     []TeamMember   `yaml:"team"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Mode    string `yaml:"mode"`     // debug, release, test
	BaseURL string `yaml:"base_url"` // public base URL of the API surface
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// AuthConfig selects the identity provider and the role fallbacks.
type AuthConfig struct {
	Provider          string   `yaml:"provider"` // firebase, local
	FirebaseProjectID string   `yaml:"firebase_project_id"`
	JWKSURL           string   `yaml:"jwks_url"`
	AdminEmails       []string `yaml:"admin_emails"`
	DefaultRole       string   `yaml:"default_role"`
	SeedPassword      string   `yaml:"seed_password"` // initial password for seeded team members (local provider)
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type StorageConfig struct {
	Dir         string `yaml:"dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// RedisConfig for the optional async security event queue
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SecurityConfig struct {
	TrustedOrigins   []string `yaml:"trusted_origins"`
	LogRetentionDays int      `yaml:"log_retention_days"`
	FirewallPatterns []string `yaml:"firewall_patterns"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// TeamMember is a seed entry for the users collection.
type TeamMember struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Title string `yaml:"title"`
}

const (
	ProviderFirebase = "firebase"
	ProviderLocal    = "local"

	DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// DefaultFirewallPatterns are matched case-insensitively against query strings and header values.
var DefaultFirewallPatterns = []string{
	"UNION SELECT", "drop table", ";--", "<script>", "alert(",
	"javascript:", "../", "etc/passwd", "cmd.exe", "/bin/sh",
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		cfg = DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    "8080",
			Mode:    "debug",
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "nexlayer.db",
		},
		Auth: AuthConfig{
			Provider:    ProviderLocal,
			JWKSURL:     DefaultJWKSURL,
			DefaultRole: "Member",
		},
		JWT: JWTConfig{
			Secret:     "nexlayer-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Storage: StorageConfig{
			Dir:         "uploads",
			MaxUploadMB: 25,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		Security: SecurityConfig{
			TrustedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			LogRetentionDays: 90,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) applyDefaults() {
	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "Member"
	}
	if c.Auth.JWKSURL == "" {
		c.Auth.JWKSURL = DefaultJWKSURL
	}
	if len(c.Security.FirewallPatterns) == 0 {
		c.Security.FirewallPatterns = DefaultFirewallPatterns
	}
	if c.Storage.MaxUploadMB <= 0 {
		c.Storage.MaxUploadMB = 25
	}
	if c.JWT.ExpireHour <= 0 {
		c.JWT.ExpireHour = 24
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		c.Server.BaseURL = baseURL
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if provider := os.Getenv("AUTH_PROVIDER"); provider != "" {
		c.Auth.Provider = provider
	}
	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		c.Auth.FirebaseProjectID = projectID
	}
	if pw := os.Getenv("SEED_PASSWORD"); pw != "" {
		c.Auth.SeedPassword = pw
	}
	if emails := os.Getenv("ADMIN_EMAILS"); emails != "" {
		c.Auth.AdminEmails = SplitCSV(emails)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if origins := os.Getenv("TRUSTED_ORIGINS"); origins != "" {
		c.Security.TrustedOrigins = SplitCSV(origins)
	}
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		c.Sentry.DSN = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		// Password format: :password or user:password
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

// SplitCSV splits a comma separated list, trimming blanks.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
