package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort  int    `env:"APP_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	OpenAIAPIKey  string  `env:"OPENAI_API_KEY"`
	OpenAIModel   string  `env:"OPENAI_MODEL,default=gpt-3.5-turbo"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL"`
	Temperature   float64 `env:"PLANNER_TEMPERATURE,default=1.0"`

	WikipediaURL string `env:"WIKIPEDIA_URL,default=https://en.wikipedia.org"`

	RedditUser  string `env:"REDDIT_USER"`
	RedditKey   string `env:"REDDIT_KEY"`
	RedditAgent string `env:"REDDIT_AGENT,default=metasearch/1.0"`

	TaddyUser string `env:"TADDY_USER"`
	TaddyKey  string `env:"TADDY_KEY"`

	UnsplashAccess  string `env:"UNSPLASH_ACCESS"`
	UnsplashPerPage int    `env:"UNSPLASH_PER_PAGE,default=10"`

	QdrantHost           string `env:"QDRANT_HOST"`
	QdrantPort           int    `env:"QDRANT_PORT,default=6334"`
	QdrantAPIKey         string `env:"QDRANT_API_KEY"`
	QdrantUseTLS         bool   `env:"QDRANT_USE_TLS,default=false"`
	ImageCollection      string `env:"IMAGE_COLLECTION,default=image_collection"`
	ImageCollectionLabel string `env:"IMAGE_COLLECTION_LABEL,default=Savee"`
	ImageTopK            int    `env:"IMAGE_TOP_K,default=10"`
	ClipEmbeddingURL     string `env:"CLIP_EMBEDDING_URL"`

	// Optional YAML file with Tuning overrides.
	ConfigFile string `env:"METASEARCH_CONFIG"`
}

// Tuning holds the knobs that may also be set from a YAML file.
type Tuning struct {
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	UnsplashPerPage int     `yaml:"unsplash_per_page"`
	ImageTopK       int     `yaml:"image_top_k"`
	CollectionLabel string  `yaml:"collection_label"`
}

// Load reads an optional .env file, then the environment, then the optional
// YAML tuning file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.ApplyYAML(data); err != nil {
			return nil, err
		}
	}

	validate(&cfg)
	return &cfg, nil
}

// ApplyYAML overlays the non-zero values of a Tuning document.
func (c *Config) ApplyYAML(data []byte) error {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if t.Model != "" {
		c.OpenAIModel = t.Model
	}
	if t.Temperature != 0 {
		c.Temperature = t.Temperature
	}
	if t.UnsplashPerPage != 0 {
		c.UnsplashPerPage = t.UnsplashPerPage
	}
	if t.ImageTopK != 0 {
		c.ImageTopK = t.ImageTopK
	}
	if t.CollectionLabel != "" {
		c.ImageCollectionLabel = t.CollectionLabel
	}
	return nil
}

func validate(cfg *Config) {
	if cfg.Temperature < 0 {
		cfg.Temperature = 0
	}
	if cfg.Temperature > 2 {
		cfg.Temperature = 2
	}
	if cfg.UnsplashPerPage < 1 {
		cfg.UnsplashPerPage = 1
	}
	if cfg.UnsplashPerPage > 30 {
		cfg.UnsplashPerPage = 30
	}
	if cfg.ImageTopK < 1 {
		cfg.ImageTopK = 1
	}
	if cfg.ImageTopK > 100 {
		cfg.ImageTopK = 100
	}
}

func (c *Config) PlannerEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) RedditEnabled() bool {
	return c.RedditUser != "" && c.RedditKey != ""
}

func (c *Config) TaddyEnabled() bool {
	return c.TaddyUser != "" && c.TaddyKey != ""
}

func (c *Config) UnsplashEnabled() bool {
	return c.UnsplashAccess != ""
}

func (c *Config) VectorImageEnabled() bool {
	return c.QdrantHost != "" && c.ClipEmbeddingURL != ""
}
