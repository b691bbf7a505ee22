package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port      string `toml:"port"`
	Mode      string `toml:"mode"` // gin mode: debug, release, test
	UploadDir string `toml:"upload_dir"`
	AvatarDir string `toml:"avatar_dir"`
}

type LogConfig struct {
	Env string `toml:"env"` // "production" switches to the JSON encoder
}

type StoreConfig struct {
	Backend    string `toml:"backend"` // file, badger, sqlite, memgraph, memory
	Dir        string `toml:"dir"`
	Format     string `toml:"format"` // json or yaml, file backend only
	BadgerPath string `toml:"badger_path"`
	SQLitePath string `toml:"sqlite_path"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LLMConfig struct {
	Provider    string `toml:"provider"`
	Model       string `toml:"model"`
	VisionModel string `toml:"vision_model"`
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
}

type AnalysisConfig struct {
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	MaxConcurrency  int    `toml:"max_concurrency"`
	BreakerFailures uint32 `toml:"breaker_failures"`
	BreakerCooldown int    `toml:"breaker_cooldown_seconds"`
}

// Prompts are fmt templates. Empty values fall back to built-in defaults.
type Prompts struct {
	Image string `toml:"image"` // %s: context clues
	Text  string `toml:"text"`  // %s: journal text
	Match string `toml:"match"` // %s: description, %s: known people
}

type GraphConfig struct {
	DefaultHops int    `toml:"default_hops"`
	Circles     string `toml:"circles"` // lpa or components
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Store    StoreConfig    `toml:"store"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	LLM      LLMConfig      `toml:"llm"`
	Analysis AnalysisConfig `toml:"analysis"`
	Prompts  Prompts        `toml:"prompts"`
	Graph    GraphConfig    `toml:"graph"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8080",
			Mode:      "debug",
			UploadDir: "data/uploads",
			AvatarDir: "data/avatars",
		},
		Log: LogConfig{Env: "development"},
		Store: StoreConfig{
			Backend:    "file",
			Dir:        "data",
			Format:     "json",
			BadgerPath: "data/badger",
			SQLitePath: "data/deepmemory.db",
		},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "qwen2.5:7b",
			BaseURL:  "http://localhost:11434",
		},
		Analysis: AnalysisConfig{
			TimeoutSeconds:  60,
			MaxConcurrency:  4,
			BreakerFailures: 3,
			BreakerCooldown: 30,
		},
		Graph: GraphConfig{DefaultHops: 1, Circles: "lpa"},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	override(&c.Server.Port, "PORT")
	override(&c.Server.Mode, "GIN_MODE")
	override(&c.Log.Env, "APP_ENV")

	override(&c.Store.Backend, "STORE_BACKEND")
	override(&c.Store.Dir, "STORE_DIR")
	override(&c.Store.Format, "STORE_FORMAT")

	override(&c.Memgraph.URI, "MEMGRAPH_URI")
	override(&c.Memgraph.User, "MEMGRAPH_USER")
	override(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")

	override(&c.LLM.Provider, "LLM_PROVIDER")
	override(&c.LLM.Model, "LLM_MODEL")
	override(&c.LLM.VisionModel, "LLM_VISION_MODEL")
	override(&c.LLM.APIKey, "LLM_API_KEY")
	override(&c.LLM.BaseURL, "LLM_BASE_URL")

	if v := os.Getenv("ANALYSIS_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.TimeoutSeconds = n
		}
	}
}
