// Load envs from .env
// Load YAML config over defaults
// Apply env overrides
// Validate

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	General       General       `yaml:"general"`
	Platforms     Platforms     `yaml:"platforms"`
	Timing        Timing        `yaml:"timing"`
	SearchFilters SearchFilters `yaml:"search_filters"`
	Browser       Browser       `yaml:"browser"`
	Lock          Lock          `yaml:"lock"`
	Telegram      Telegram      `yaml:"telegram"`
	Database      Database      `yaml:"database"`
	Server        Server        `yaml:"server"`
}

type General struct {
	OutputFilename string   `yaml:"output_filename" validate:"required"`
	FinalColumns   []string `yaml:"final_columns_to_save" validate:"required,min=1,dive,required"`
	UserAgent      string   `yaml:"user_agent" validate:"required"`
	LogLevel       string   `yaml:"log_level" validate:"oneof=debug info warn warning error"`
}

// Platform configures one job board.
type Platform struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url" validate:"required_if=Enabled true"`
	//query parameter carrying the lookback window
	TimeParamName  string              `yaml:"time_param_name" validate:"required_if=Enabled true"`
	MaxPages       int                 `yaml:"max_pages" validate:"gte=1"`
	PageIncrement  int                 `yaml:"page_increment" validate:"gte=1"`
	RequestTimeout time.Duration       `yaml:"request_timeout" validate:"gt=0"`
	MaxRetries     int                 `yaml:"max_retries" validate:"gte=0"`
	TimeWindow     filter.WindowPolicy `yaml:"time_window"`
}

type Platforms struct {
	OCC      Platform `yaml:"occ"`
	Indeed   Platform `yaml:"indeed"`
	LinkedIn Platform `yaml:"linkedin"`
}

// Get returns the configuration block of p.
func (ps *Platforms) Get(p models.Platform) *Platform {
	switch p {
	case models.PlatformOCC:
		return &ps.OCC
	case models.PlatformIndeed:
		return &ps.Indeed
	case models.PlatformLinkedIn:
		return &ps.LinkedIn
	}
	return nil
}

// Enabled lists enabled platforms in run order.
func (ps *Platforms) Enabled() []models.Platform {
	var out []models.Platform
	for _, p := range models.Platforms {
		if ps.Get(p).Enabled {
			out = append(out, p)
		}
	}
	return out
}

type Timing struct {
	DelayBetweenKeywords time.Duration `yaml:"delay_between_keywords" validate:"gte=0"`
	DelayBetweenPages    time.Duration `yaml:"delay_between_pages" validate:"gte=0"`
	RetryDelay           time.Duration `yaml:"retry_delay" validate:"gte=0"`
}

type SearchFilters struct {
	SearchKeywords []string `yaml:"search_keywords" validate:"required,min=1,dive,required"`
	ExcludeTitle   []string `yaml:"exclude_title_keywords"`
	IncludeTitle   []string `yaml:"include_title_keywords"`
}

// Lists returns the title filter lists.
func (sf SearchFilters) Lists() filter.Lists {
	return filter.Lists{Exclude: sf.ExcludeTitle, Include: sf.IncludeTitle}
}

type Browser struct {
	Headless bool `yaml:"headless"`
	//attach to a running Chrome (e.g. http://localhost:9222) instead of launching one
	CDPEndpoint string `yaml:"cdp_endpoint"`
	CookiesPath string `yaml:"cookies_path"`
	//navigation timeout
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	//half-screen scrolls and mouse moves after each page load
	ScrollSteps int           `yaml:"scroll_steps" validate:"gte=0"`
	MouseMoves  int           `yaml:"mouse_moves" validate:"gte=0"`
	MinPause    time.Duration `yaml:"min_pause" validate:"gte=0"`
	MaxPause    time.Duration `yaml:"max_pause" validate:"gtefield=MinPause"`
}

type Lock struct {
	Backend  string        `yaml:"backend" validate:"oneof=file redis none"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Backend redis"`
	Key      string        `yaml:"key"`
}

type Telegram struct {
	Token    string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	SendJobs bool   `yaml:"send_jobs"`
	MaxJobs  int    `yaml:"max_jobs" validate:"gte=0"`
}

// Enabled reports whether notifications are configured.
func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type Database struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type Server struct {
	Addr       string `yaml:"addr"`
	ReportPath string `yaml:"report_path" validate:"required"`
}

// Load reads .env, then the YAML file at path over Default(), then env
// overrides, and validates the result. A missing file is not an error.
func Load(path string, log *slog.Logger) (*Config, error) {
	_ = godotenv.Load()
	if log == nil {
		log = slog.Default()
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("⚠️ Config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Lock.RedisURL = v
	}
	if v := os.Getenv("JOBRADAR_OUTPUT"); v != "" {
		c.General.OutputFilename = v
	}
	if v := os.Getenv("JOBRADAR_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("JOBRADAR_CDP_ENDPOINT"); v != "" {
		c.Browser.CDPEndpoint = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	return nil
}

// normalize drops empty filter words. The rest are kept byte for byte.
func (c *Config) normalize() {
	c.SearchFilters.ExcludeTitle = filter.CompactWords(c.SearchFilters.ExcludeTitle)
	c.SearchFilters.IncludeTitle = filter.CompactWords(c.SearchFilters.IncludeTitle)
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := models.CheckSchema(c.General.FinalColumns); err != nil {
		return fmt.Errorf("invalid config: final_columns_to_save: %w", err)
	}
	if len(c.Platforms.Enabled()) == 0 {
		return errors.New("invalid config: no platform enabled")
	}
	return nil
}
