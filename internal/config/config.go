package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// KnowledgeConfig locates the FAQ shard files.
type KnowledgeConfig struct {
	Dir           string   `yaml:"dir"`
	CharterShards []string `yaml:"charter_shards"`
	SalesShards   []string `yaml:"sales_shards"`
}

// CompletionConfig holds settings for the chat completion endpoint.
type CompletionConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// PromptConfig controls FAQ snippet splicing.
type PromptConfig struct {
	MaxSnippets   int    `yaml:"max_snippets"`
	SnippetStyle  string `yaml:"snippet_style"`
	QuestionLimit int    `yaml:"question_limit"`
}

// ConversationConfig bounds the history sent with each request.
type ConversationConfig struct {
	HistoryWindow int `yaml:"history_window"`
}

// LoggingConfig selects the log level and destination.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Knowledge    KnowledgeConfig    `yaml:"knowledge"`
	Completion   CompletionConfig   `yaml:"completion"`
	Prompt       PromptConfig       `yaml:"prompt"`
	Conversation ConversationConfig `yaml:"conversation"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/charterbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/charterbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "charterbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Knowledge.Dir == "" {
		cfg.Knowledge.Dir = "."
	}
	if len(cfg.Knowledge.CharterShards) == 0 {
		cfg.Knowledge.CharterShards = []string{
			"inara_charter_batch_1.json",
			"inara_charter_batch_2.json",
			"inara_charter_batch_3.json",
			"inara_charter_batch_4.json",
		}
	}
	if len(cfg.Knowledge.SalesShards) == 0 {
		cfg.Knowledge.SalesShards = []string{
			"inara_sales_batch_1.json",
			"inara_sales_batch_2.json",
		}
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = "MISTRAL_API_KEY"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "mistral-large-latest"
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = 0.7
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 1500
	}
	if cfg.Completion.TimeoutSecs == 0 {
		cfg.Completion.TimeoutSecs = 30
	}
	// a negative max_snippets disables snippet splicing
	if cfg.Prompt.MaxSnippets == 0 {
		cfg.Prompt.MaxSnippets = 5
	}
	if cfg.Prompt.SnippetStyle == "" {
		cfg.Prompt.SnippetStyle = "full"
	}
	if cfg.Prompt.QuestionLimit == 0 {
		cfg.Prompt.QuestionLimit = 100
	}
	if cfg.Conversation.HistoryWindow == 0 {
		cfg.Conversation.HistoryWindow = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "charterbot.log"
	}
}
