package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Browser    BrowserConfig    `yaml:"browser"`
	Selectors  SelectorsConfig  `yaml:"selectors"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Expander   ExpanderConfig   `yaml:"expander"`
	Credential CredentialConfig `yaml:"credential"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BrowserConfig selects the Chrome instance the workflow drives. An empty
// DebugURL launches a private browser instead of attaching to a running one.
type BrowserConfig struct {
	DebugURL string        `yaml:"debug_url"`
	Headless bool          `yaml:"headless"`
	Timeout  time.Duration `yaml:"timeout"`
}

type SelectorsConfig struct {
	ExpandButton     string `yaml:"expand_button"`
	TranscriptButton string `yaml:"transcript_button"`
	TranscriptLabel  string `yaml:"transcript_label"`
	DescriptionRoot  string `yaml:"description_root"`
	SegmentContainer string `yaml:"segment_container"`
	SegmentText      string `yaml:"segment_text"`
}

type WorkflowConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
}

type ExpanderConfig struct {
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type CredentialConfig struct {
	Store         string        `yaml:"store"`
	SQLitePath    string        `yaml:"sqlite_path"`
	PromptTimeout time.Duration `yaml:"prompt_timeout"`
}

type GeminiConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StoreKeyring = "keyring"
	StoreSQLite  = "sqlite"
)

// Load reads a YAML config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns a validated config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	// Validate cannot fail on the zero config.
	_ = cfg.Validate()
	return cfg
}

func (c *Config) Validate() error {
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser.timeout must not be negative")
	}
	if c.Workflow.SettleDelay < 0 {
		return fmt.Errorf("workflow.settle_delay must not be negative")
	}
	if c.Expander.WaitTimeout < 0 {
		return fmt.Errorf("expander.wait_timeout must not be negative")
	}
	if c.Credential.PromptTimeout < 0 {
		return fmt.Errorf("credential.prompt_timeout must not be negative")
	}

	switch c.Credential.Store {
	case "":
		c.Credential.Store = StoreKeyring
	case StoreKeyring, StoreSQLite:
	default:
		return fmt.Errorf("credential.store must be %q or %q, got %q", StoreKeyring, StoreSQLite, c.Credential.Store)
	}

	switch c.Logging.Format {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Browser.Timeout == 0 {
		c.Browser.Timeout = 30 * time.Second
	}
	if c.Workflow.SettleDelay == 0 {
		c.Workflow.SettleDelay = 3 * time.Second
	}
	if c.Expander.WaitTimeout == 0 {
		c.Expander.WaitTimeout = 15 * time.Second
	}
	if c.Expander.PollInterval <= 0 {
		c.Expander.PollInterval = 100 * time.Millisecond
	}
	if c.Credential.SQLitePath == "" {
		c.Credential.SQLitePath = "data/credentials.db"
	}
	if c.Credential.PromptTimeout == 0 {
		c.Credential.PromptTimeout = 2 * time.Minute
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:7821"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	c.Selectors.applyDefaults()

	return nil
}

func (s *SelectorsConfig) applyDefaults() {
	if s.ExpandButton == "" {
		s.ExpandButton = "#expand.ytd-text-inline-expander"
	}
	if s.TranscriptButton == "" {
		s.TranscriptButton = ".yt-spec-button-shape-next"
	}
	if s.TranscriptLabel == "" {
		s.TranscriptLabel = "스크립트 표시"
	}
	if s.DescriptionRoot == "" {
		s.DescriptionRoot = "#description-inner"
	}
	if s.SegmentContainer == "" {
		s.SegmentContainer = "#segments-container"
	}
	if s.SegmentText == "" {
		s.SegmentText = ".segment-text"
	}
}
