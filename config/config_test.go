package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_PORT", "OPENAI_API_KEY", "OPENAI_MODEL", "PLANNER_TEMPERATURE",
		"REDDIT_USER", "REDDIT_KEY", "QDRANT_HOST", "CLIP_EMBEDDING_URL", "METASEARCH_CONFIG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, 1.0, cfg.Temperature)
	assert.Equal(t, "https://en.wikipedia.org", cfg.WikipediaURL)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "Savee", cfg.ImageCollectionLabel)
	assert.False(t, cfg.PlannerEnabled())
	assert.False(t, cfg.RedditEnabled())
	assert.False(t, cfg.VectorImageEnabled())
}

func TestLoad_EnvironmentAndYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o-mini\nimage_top_k: 500\ncollection_label: Moodboard\n"), 0o600))

	t.Setenv("APP_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PLANNER_TEMPERATURE", "3.5")
	t.Setenv("REDDIT_USER", "u")
	t.Setenv("REDDIT_KEY", "k")
	t.Setenv("QDRANT_HOST", "localhost")
	t.Setenv("CLIP_EMBEDDING_URL", "http://localhost:8081")
	t.Setenv("METASEARCH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.AppPort)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 2.0, cfg.Temperature)
	assert.Equal(t, 100, cfg.ImageTopK)
	assert.Equal(t, "Moodboard", cfg.ImageCollectionLabel)
	assert.True(t, cfg.PlannerEnabled())
	assert.True(t, cfg.RedditEnabled())
	assert.True(t, cfg.VectorImageEnabled())
	assert.False(t, cfg.TaddyEnabled())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("METASEARCH_CONFIG", "/does/not/exist.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestApplyYAML_Invalid(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.ApplyYAML([]byte("model: [unterminated")))
}
