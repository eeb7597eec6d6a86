package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/app/recommendation"
	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/NeuralTrust/BarButler/pkg/infra/tmdb"
	"github.com/NeuralTrust/BarButler/pkg/infra/whiskeyapi"
	"github.com/spf13/viper"
)

const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"

	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Redis      RedisConfig       `mapstructure:"redis"`
	Session    SessionConfig     `mapstructure:"session"`
	Matching   MatchingConfig    `mapstructure:"matching"`
	Extraction ExtractionConfig  `mapstructure:"extraction"`
	Movies     tmdb.Config       `mapstructure:"movies"`
	Whiskey    whiskeyapi.Config `mapstructure:"whiskey"`
	HTTPClient HTTPClientConfig  `mapstructure:"http_client"`
	Telemetry  TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host        string          `mapstructure:"host"`
	Port        int             `mapstructure:"port"`
	MetricsPort int             `mapstructure:"metrics_port"`
	SwaggerURL  string          `mapstructure:"swagger_url"`
	WebSocket   WebSocketConfig `mapstructure:"websocket"`
}

type WebSocketConfig struct {
	MaxConnections int           `mapstructure:"max_connections"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableProcess bool `mapstructure:"enable_process"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type SessionConfig struct {
	Store string        `mapstructure:"store"`
	TTL   time.Duration `mapstructure:"ttl"`
}

type VocabularyConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

type EmbeddingCacheConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type MatchingConfig struct {
	Vocabulary  VocabularyConfig        `mapstructure:"vocabulary"`
	Cache       EmbeddingCacheConfig    `mapstructure:"cache"`
	Embedding   embedding.Config        `mapstructure:"embedding"`
	Concurrency int                     `mapstructure:"concurrency"`
	Profiles    recommendation.Profiles `mapstructure:"profiles"`
}

type ExtractionConfig struct {
	Provider string           `mapstructure:"provider"`
	LLM      providers.Config `mapstructure:",squash"`
}

type HTTPClientConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
}

type TelemetryConfig struct {
	Workers   int                        `mapstructure:"workers"`
	QueueSize int                        `mapstructure:"queue_size"`
	Exporters []telemetry.ExporterConfig `mapstructure:"exporters"`
}

var globalConfig Config

// Load reads <configPath>/config.yaml. Environment variables override file
// values, with dots in keys replaced by underscores (SERVER_PORT).
func Load(configPath string) error {
	cfg, err := load(configPath, "config")
	if err != nil {
		return err
	}
	globalConfig = *cfg
	return nil
}

func load(configPath, fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// zero-valued bools cannot be told apart from unset ones after Unmarshal
	v.SetDefault("movies.include_adult", true)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("config file %s.yaml not found: %w", fileName, err)
		}
		return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	setDefaultValues(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", fileName, err)
	}
	return &cfg, nil
}

func setDefaultValues(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.SwaggerURL == "" {
		cfg.Server.SwaggerURL = fmt.Sprintf("http://localhost:%d/swagger.json", cfg.Server.Port)
	}
	if cfg.Server.WebSocket.PingPeriod == 0 {
		cfg.Server.WebSocket.PingPeriod = 30 * time.Second
	}
	if cfg.Server.WebSocket.PongWait == 0 {
		cfg.Server.WebSocket.PongWait = 45 * time.Second
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Session.Store == "" {
		cfg.Session.Store = SessionStoreRedis
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = time.Hour
	}

	if cfg.Matching.Vocabulary.Name == "" {
		cfg.Matching.Vocabulary.Name = "tasting_notes"
	}
	if cfg.Matching.Vocabulary.Path == "" {
		cfg.Matching.Vocabulary.Path = "config/tasting_notes.txt"
	}
	if cfg.Matching.Cache.Backend == "" {
		cfg.Matching.Cache.Backend = CacheBackendFile
	}
	if cfg.Matching.Cache.Backend == CacheBackendFile && cfg.Matching.Cache.Path == "" {
		cfg.Matching.Cache.Path = "data/tasting_notes.embeddings.json"
	}
	if cfg.Matching.Profiles.Movie.TopK == 0 {
		cfg.Matching.Profiles.Movie = recommendation.DefaultProfiles.Movie
	}
	if cfg.Matching.Profiles.Taste.TopK == 0 {
		cfg.Matching.Profiles.Taste = recommendation.DefaultProfiles.Taste
	}

	if cfg.HTTPClient.Timeout == 0 {
		cfg.HTTPClient.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient.BreakerTimeout == 0 {
		cfg.HTTPClient.BreakerTimeout = 30 * time.Second
	}
	if cfg.HTTPClient.BreakerMaxFailures == 0 {
		cfg.HTTPClient.BreakerMaxFailures = 5
	}

	if cfg.Telemetry.Workers == 0 {
		cfg.Telemetry.Workers = 2
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Matching.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("matching.cache.backend must be %q or %q", CacheBackendFile, CacheBackendRedis))
	}
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("session.store must be %q or %q", SessionStoreRedis, SessionStoreMemory))
	}
	if c.Matching.Embedding.Provider == "" {
		errs = append(errs, errors.New("matching.embedding.provider is required"))
	}
	if c.Extraction.Provider == "" {
		errs = append(errs, errors.New("extraction.provider is required"))
	}
	if c.Matching.Profiles.Movie.TopK <= 0 {
		errs = append(errs, errors.New("matching.profiles.movie.top_k must be positive"))
	}
	if c.Matching.Profiles.Taste.TopK <= 0 {
		errs = append(errs, errors.New("matching.profiles.taste.top_k must be positive"))
	}
	if c.Movies.ApiKey == "" {
		errs = append(errs, errors.New("movies.api_key is required"))
	}
	return errors.Join(errs...)
}

// NeedsRedis reports whether any configured store lives in redis.
func (c *Config) NeedsRedis() bool {
	return c.Session.Store == SessionStoreRedis || c.Matching.Cache.Backend == CacheBackendRedis
}

func GetConfig() *Config {
	return &globalConfig
}
