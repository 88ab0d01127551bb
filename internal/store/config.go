package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"llm-market-analyst/internal/types"
)

type Config struct {
	Mode     string             `yaml:"mode"` // DRY_RUN or LIVE
	Universe []types.Instrument `yaml:"universe"`
	Quotes   struct {
		Provider string `yaml:"provider"` // YAHOO, KITE or STATIC
		Exchange string `yaml:"exchange"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"quotes"`
	Batch struct {
		Workers            int    `yaml:"workers"`
		TaskTimeoutSeconds int    `yaml:"task_timeout_seconds"`
		Schedule           string `yaml:"schedule"` // optional cron expression
	} `yaml:"batch"`
	MarketContext struct {
		TTLSeconds   int      `yaml:"ttl_seconds"`
		Indices      []string `yaml:"indices"`
		Headlines    bool     `yaml:"headlines"`
		MaxHeadlines int      `yaml:"max_headlines"`
	} `yaml:"market_context"`
	LLM struct {
		Provider       string  `yaml:"provider"` // OPENAI, CLAUDE or empty for noop
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		System         string  `yaml:"system"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Snapshot struct {
		Dir  string `yaml:"dir"`
		Keep int    `yaml:"keep"`
	} `yaml:"snapshot"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if len(c.Universe) == 0 {
		return errors.New("universe cannot be empty")
	}
	if c.Quotes.Provider != "YAHOO" && c.Quotes.Provider != "KITE" && c.Quotes.Provider != "STATIC" {
		return fmt.Errorf("quotes.provider must be 'YAHOO', 'KITE' or 'STATIC', got '%s'", c.Quotes.Provider)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Batch.TaskTimeoutSeconds <= 0 {
		return fmt.Errorf("batch.task_timeout_seconds must be positive, got %d", c.Batch.TaskTimeoutSeconds)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Quotes.Provider == "" {
		c.Quotes.Provider = "STATIC"
	}
	if c.Quotes.Exchange == "" {
		c.Quotes.Exchange = "NSE"
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 8
	}
	if c.Batch.TaskTimeoutSeconds == 0 {
		c.Batch.TaskTimeoutSeconds = 15
	}
	if c.MarketContext.TTLSeconds == 0 {
		c.MarketContext.TTLSeconds = 300
	}
	if c.MarketContext.MaxHeadlines == 0 {
		c.MarketContext.MaxHeadlines = 5
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 400
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 15
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "snapshots"
	}
	if c.Snapshot.Keep == 0 {
		c.Snapshot.Keep = 10
	}
}
