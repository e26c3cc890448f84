// Package config loads runtime settings: defaults, then a YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Image    LLMConfig      `yaml:"image"`
	Search   SearchConfig   `yaml:"search"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// LLMConfig selects a generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// SearchConfig 检索配置；APIKey 为空时不做检索。
type SearchConfig struct {
	Provider      string `yaml:"provider"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	Depth         string `yaml:"depth"`
	MaxResults    int    `yaml:"max_results"`
	RatePerMinute int    `yaml:"rate_per_minute"`
}

// PipelineConfig holds persona overrides and section concurrency.
type PipelineConfig struct {
	Parallelism     int    `yaml:"parallelism"`
	OutlinePersona  string `yaml:"outline_persona"`
	WriterPersona   string `yaml:"writer_persona"`
	ReviewerPersona string `yaml:"reviewer_persona"`
	ImagePersona    string `yaml:"image_persona"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	// debug, info, warn, error
	Level string `yaml:"level"`
	// json, console
	Format      string   `yaml:"format"`
	OutputPaths []string `yaml:"output_paths"`
}

type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: "dashscope",
			Model:    "qwen-plus-2025-01-25",
			BaseURL:  "https://dashscope-intl.aliyuncs.com/compatible-mode/v1",
		},
		Image: LLMConfig{
			Provider: "openai",
			Model:    "dall-e-3",
		},
		Search: SearchConfig{
			Provider:      "tavily",
			Depth:         "basic",
			MaxResults:    3,
			RatePerMinute: 60,
		},
		Pipeline: PipelineConfig{Parallelism: 1},
		Output:   OutputConfig{Dir: "outputs"},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		},
		Server: ServerConfig{
			Addr:       ":8080",
			RunTimeout: 10 * time.Minute,
		},
	}
}

// Load applies the YAML file at path (if it exists) and environment overrides on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&cfg.LLM.APIKey, "ARTICLE_LLM_API_KEY", "DASHSCOPE_API_KEY")
	set(&cfg.LLM.Model, "ARTICLE_LLM_MODEL")
	set(&cfg.LLM.BaseURL, "ARTICLE_LLM_BASE_URL")
	set(&cfg.Image.APIKey, "ARTICLE_IMAGE_API_KEY", "OPENAI_API_KEY")
	set(&cfg.Search.APIKey, "ARTICLE_SEARCH_API_KEY", "TAVILY_API_KEY")
	set(&cfg.Output.Dir, "ARTICLE_OUTPUT_DIR")
	set(&cfg.Log.Level, "ARTICLE_LOG_LEVEL")
	set(&cfg.Server.Addr, "ARTICLE_SERVER_ADDR")

	if v := getenv("ARTICLE_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ARTICLE_PARALLELISM: %w", err)
		}
		cfg.Pipeline.Parallelism = n
	}
	return nil
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	if c.Output.Dir == "" {
		return errors.New("output.dir is required")
	}
	if c.Pipeline.Parallelism < 0 {
		return errors.New("pipeline.parallelism must not be negative")
	}
	if c.Search.MaxResults < 0 {
		return errors.New("search.max_results must not be negative")
	}
	return nil
}
