package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration. DatabaseURL wins over the discrete fields;
	// with neither set the service falls back to SQLite.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Redis configuration
	RedisURL string

	// JWT configuration
	JWTSecret string

	// Completion provider configuration
	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMTimeout    time.Duration

	// Plan export
	S3BucketName string
	AWSRegion    string

	// Plan lifecycle events
	AMQPURL      string
	AMQPExchange string

	// Review notifications
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	PlanRateLimit    int
	SeedDemoAccounts bool
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI, Development, Test:
		// .env is optional; real environment variables take precedence
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		loadFromEnv(cfg, os.Getenv)
	case Production:
		loadFromEnv(cfg, secretOrEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config, get func(string) string) {
	cfg.ServerPort = withDefault(get("SERVER_PORT"), "5000")
	cfg.ServerHost = withDefault(get("SERVER_HOST"), "0.0.0.0")
	cfg.CORSOrigins = splitList(withDefault(get("CORS_ORIGINS"), "http://localhost:3000,http://localhost:5173"))

	cfg.DatabaseURL = get("DATABASE_URL")
	cfg.DBHost = get("DB_HOST")
	cfg.DBPort = withDefault(get("DB_PORT"), "5432")
	cfg.DBUser = get("DB_USER")
	cfg.DBPassword = get("DB_PASSWORD")
	cfg.DBName = get("DB_NAME")
	cfg.DBSSLMode = withDefault(get("DB_SSL_MODE"), "disable")
	cfg.SQLitePath = withDefault(get("SQLITE_PATH"), "nutriplan.db")

	cfg.RedisURL = get("REDIS_URL")
	cfg.JWTSecret = get("JWT_SECRET")
	if cfg.JWTSecret == "" && GetEnvironment() != Production {
		cfg.JWTSecret = "nutriplan-dev-secret"
	}

	cfg.LLMProvider = strings.ToLower(get("LLM_PROVIDER"))
	cfg.GeminiAPIKey = get("GEMINI_API_KEY")
	cfg.GeminiModel = withDefault(get("GEMINI_MODEL"), "gemini-pro")
	cfg.OpenAIAPIKey = withDefault(get("OPENAI_API_KEY"), get("DEEPSEEK_API_KEY"))
	cfg.OpenAIBaseURL = withDefault(get("OPENAI_BASE_URL"), "https://api.deepseek.com/v1")
	cfg.OpenAIModel = withDefault(get("OPENAI_MODEL"), "deepseek-chat")
	cfg.LLMTimeout = parseDuration(get("LLM_TIMEOUT"), 10*time.Second)

	cfg.S3BucketName = get("S3_BUCKET_NAME")
	cfg.AWSRegion = withDefault(get("AWS_REGION"), "us-east-1")

	cfg.AMQPURL = get("AMQP_URL")
	cfg.AMQPExchange = withDefault(get("AMQP_EXCHANGE"), "nutriplan.events")

	cfg.SMTPHost = get("SMTP_HOST")
	cfg.SMTPPort = get("SMTP_PORT")
	cfg.SMTPUsername = get("SMTP_USERNAME")
	cfg.SMTPPassword = get("SMTP_PASSWORD")
	cfg.EmailFrom = withDefault(get("EMAIL_FROM"), "no-reply@nutriplan.local")

	cfg.PlanRateLimit = parseInt(get("PLAN_RATE_LIMIT"), 10)
	cfg.SeedDemoAccounts = get("SEED_DEMO_ACCOUNTS") == "true"
}

// UsesSQLite reports whether no external database is configured
func (c *Config) UsesSQLite() bool {
	return c.DatabaseURL == "" && c.DBHost == ""
}

// PostgresDSN builds the connection string for the configured Postgres database
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// secretOrEnv reads a Docker secret named after the lower-cased key and
// falls back to the environment variable of the same name
func secretOrEnv(key string) string {
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return os.Getenv(key)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(v string, def int) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// bare numbers are seconds
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
