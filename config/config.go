package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig is assembled from an optional YAML file, then environment overrides, then defaults.
type AppConfig struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	MongoURI    string `yaml:"mongo_uri"`
	MongoDB     string `yaml:"mongo_db"`
	PostgresURI string `yaml:"postgres_uri"`
	RedisAddr   string `yaml:"redis_addr"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTIssuer string        `yaml:"jwt_issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	CORSOrigins []string `yaml:"cors_origins"`

	Storage StorageConfig `yaml:"storage"`
	LLM     LLMConfig     `yaml:"llm"`
	Scoring ScoringConfig `yaml:"scoring"`

	MaxResumeBytes int64 `yaml:"max_resume_bytes"`
	// requests per minute per client IP on /api/parseResume
	ParseRateLimit int `yaml:"parse_rate_limit"`
}

type StorageConfig struct {
	Driver          string `yaml:"driver"` // gcs|s3
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	CredentialsFile string `yaml:"credentials_file"`
}

type LLMConfig struct {
	Provider        string `yaml:"provider"` // vertex|openai
	Model           string `yaml:"model"`
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	APIKey          string `yaml:"api_key"`
	CredentialsFile string `yaml:"credentials_file"`
}

type ScoringConfig struct {
	RankingURL    string `yaml:"ranking_url"`
	SimilarityURL string `yaml:"similarity_url"`
}

// Load reads .env, then CONFIG_FILE (if any), then applies env overrides and defaults.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Env, "GO_ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.MongoURI, "MONGO_URI")
	setString(&cfg.MongoDB, "MONGO_DB")
	setString(&cfg.PostgresURI, "POSTGRES_URI")
	setString(&cfg.RedisAddr, "REDIS_ADDR", "REDIS_URI", "REDIS_URL")

	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.JWTIssuer, "JWT_ISSUER")
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET", "AWS_S3_BUCKET")
	setString(&cfg.Storage.Region, "AWS_REGION")
	setString(&cfg.Storage.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS_FILE")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.ProjectID, "VERTEX_PROJECT_ID")
	setString(&cfg.LLM.Location, "VERTEX_LOCATION")
	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS_FILE")

	setString(&cfg.Scoring.RankingURL, "RANKING_WEBHOOK_URL")
	setString(&cfg.Scoring.SimilarityURL, "SIMILARITY_WEBHOOK_URL")

	setInt64(&cfg.MaxResumeBytes, "MAX_RESUME_BYTES")
	if v := os.Getenv("PARSE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ParseRateLimit = n
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "hirex"
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "hirex"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "gcs"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Location == "" {
		cfg.LLM.Location = "us-central1"
	}
	if cfg.MaxResumeBytes == 0 {
		cfg.MaxResumeBytes = 5 << 20
	}
	if cfg.ParseRateLimit == 0 {
		cfg.ParseRateLimit = 10
	}
}

// Validate checks the settings the server cannot start without.
func (c *AppConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Storage.Driver {
	case "gcs", "s3":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.LLM.Provider {
	case "vertex", "openai":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
			return
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadScoring reads only the webhook settings, for tools that do not run the server.
func LoadScoring() ScoringConfig {
	_ = godotenv.Load()
	var sc ScoringConfig
	setString(&sc.RankingURL, "RANKING_WEBHOOK_URL")
	setString(&sc.SimilarityURL, "SIMILARITY_WEBHOOK_URL")
	return sc
}
