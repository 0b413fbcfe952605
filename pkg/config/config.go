package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Personas  PersonasConfig  `mapstructure:"personas"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	PersonaTTL time.Duration `mapstructure:"persona_ttl"`
}

type OpenAIConfig struct {
	APIKey           string  `mapstructure:"api_key"`
	BaseURL          string  `mapstructure:"base_url"`
	Model            string  `mapstructure:"model"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	Temperature      float64 `mapstructure:"temperature"`
	PresencePenalty  float64 `mapstructure:"presence_penalty"`
	FrequencyPenalty float64 `mapstructure:"frequency_penalty"`
}

// AssistantConfig holds the per-turn behaviour of the assistant
type AssistantConfig struct {
	Timezone        string `mapstructure:"timezone"`
	BusinessHours   string `mapstructure:"business_hours"`
	BusinessStart   string `mapstructure:"business_start"`
	BusinessEnd     string `mapstructure:"business_end"`
	DefaultPersona  string `mapstructure:"default_persona"`
	HistoryLimit    int    `mapstructure:"history_limit"`
	RememberHistory bool   `mapstructure:"remember_history"`
	SMSMode         bool   `mapstructure:"sms_mode"`
	ResponseLength  int    `mapstructure:"response_length"`
	KnowledgeLimit  int    `mapstructure:"knowledge_limit"`
	UseAI           bool   `mapstructure:"use_ai"`
}

type PersonasConfig struct {
	// SeedFile replaces the built-in persona catalogue when set
	SeedFile string `mapstructure:"seed_file"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if u.Hostname() == "" {
		return DatabaseConfig{}, fmt.Errorf("missing host in %q", dbURL)
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		if port, err = strconv.Atoi(u.Port()); err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// parseRedisURL reads redis://[:password@]host:port[/db]
func parseRedisURL(redisURL string, base RedisConfig) (RedisConfig, error) {
	u, err := url.Parse(redisURL)
	if err != nil {
		return base, err
	}
	if u.Host == "" {
		return base, fmt.Errorf("missing host in %q", redisURL)
	}

	cfg := base
	cfg.Enabled = true
	cfg.Addr = u.Host
	if password, ok := u.User.Password(); ok {
		cfg.Password = password
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		if cfg.DB, err = strconv.Atoi(db); err != nil {
			return base, fmt.Errorf("invalid redis db %q: %w", db, err)
		}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "knowledgebase")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.persona_ttl", 10*time.Minute)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 200)
	v.SetDefault("openai.temperature", 0.8)
	v.SetDefault("openai.presence_penalty", 0.1)
	v.SetDefault("openai.frequency_penalty", 0.1)

	v.SetDefault("assistant.timezone", "America/Los_Angeles")
	v.SetDefault("assistant.business_hours", "9:00 AM - 5:00 PM")
	v.SetDefault("assistant.business_start", "09:00")
	v.SetDefault("assistant.business_end", "17:00")
	v.SetDefault("assistant.default_persona", "home-improvement-expert")
	v.SetDefault("assistant.history_limit", 10)
	v.SetDefault("assistant.remember_history", true)
	v.SetDefault("assistant.sms_mode", false)
	v.SetDefault("assistant.response_length", 160)
	v.SetDefault("assistant.knowledge_limit", 3)
	v.SetDefault("assistant.use_ai", true)

	v.SetDefault("personas.seed_file", "")
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads defaults, then the YAML file at path (skipped when path is
// empty), then environment variables. A .env file in the working directory is
// loaded first if present.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	// Enable environment variable support, e.g. ASSISTANT_TIMEZONE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		dbConfig.UseInMemory = config.Database.UseInMemory
		config.Database = dbConfig
	}

	if redisURL := v.GetString("REDIS_URL"); redisURL != "" {
		redisConfig, err := parseRedisURL(redisURL, config.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		config.Redis = redisConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks values the assistant cannot run without
func (c *Config) Validate() error {
	var errs []error
	if c.Assistant.HistoryLimit < 0 {
		errs = append(errs, errors.New("assistant.history_limit must not be negative"))
	}
	if c.Assistant.KnowledgeLimit < 0 {
		errs = append(errs, errors.New("assistant.knowledge_limit must not be negative"))
	}
	if c.Assistant.SMSMode && c.Assistant.ResponseLength <= 0 {
		errs = append(errs, errors.New("assistant.response_length must be positive in sms mode"))
	}
	for key, value := range map[string]string{
		"assistant.business_start": c.Assistant.BusinessStart,
		"assistant.business_end":   c.Assistant.BusinessEnd,
	} {
		if _, err := time.Parse("15:04", value); err != nil {
			errs = append(errs, fmt.Errorf("%s must be HH:MM, got %q", key, value))
		}
	}
	return errors.Join(errs...)
}
