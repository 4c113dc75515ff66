package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("MAX_RESUME_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gcs", cfg.Storage.Driver)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, int64(5<<20), cfg.MaxResumeBytes)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.ParseRateLimit)
}

func TestLoadYAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
port: "9000"
jwt_secret: from-file
cors_origins: ["https://a.example", "https://b.example"]
storage:
  driver: s3
  bucket: resumes
llm:
  provider: vertex
  project_id: demo
scoring:
  ranking_url: http://rank.local/hook
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "7000")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SIMILARITY_WEBHOOK_URL", "http://sim.local/hook")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "resumes", cfg.Storage.Bucket)
	assert.Equal(t, "vertex", cfg.LLM.Provider)
	assert.Equal(t, "http://rank.local/hook", cfg.Scoring.RankingURL)
	assert.Equal(t, "http://sim.local/hook", cfg.Scoring.SimilarityURL)
}

func TestValidate(t *testing.T) {
	base := AppConfig{JWTSecret: "x", Storage: StorageConfig{Driver: "gcs"}, LLM: LLMConfig{Provider: "openai"}}
	assert.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	badDriver := base
	badDriver.Storage.Driver = "ftp"
	assert.Error(t, badDriver.Validate())

	badLLM := base
	badLLM.LLM.Provider = "markov"
	assert.Error(t, badLLM.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(" , "))
}
