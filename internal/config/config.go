package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port            int               `json:"port"`
	LogConfig       logger.LogConfig  `json:"log_config"`
	DBDsn           string            `json:"db_dsn"`
	Redis           RedisConfig       `json:"redis"`
	AI              AIConfig          `json:"ai"`
	VectorStore     VectorStoreConfig `json:"vector_store"`
	Memory          MemoryConfig      `json:"memory"`
	Lead            LeadConfig        `json:"lead"`
	EmailCheck      EmailCheckConfig  `json:"email_check"`
	Admin           AdminConfig       `json:"admin"`
	FileStore       FileStoreConfig   `json:"file_store"`
	Schedule        ScheduleConfig    `json:"schedule"`
	CORSAllowlist   []string          `json:"cors_allowlist"`
	BrandName       string            `json:"brand_name"`
	ChatRateLimitMS int               `json:"chat_rate_limit_ms"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ProviderConfig struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type AIConfig struct {
	Chat            ProviderConfig `json:"chat"`
	Embed           ProviderConfig `json:"embed"`
	Dimensions      int            `json:"dimensions"`
	Timeout         int            `json:"timeout"`
	MaxMessageChars int            `json:"max_message_chars"`
	EmbedCacheSize  int            `json:"embed_cache_size"`
	EmbedCacheTTL   int            `json:"embed_cache_ttl_hours"`
}

type VectorStoreConfig struct {
	Backend        string  `json:"backend"`
	TopK           int     `json:"top_k"`
	ScoreThreshold float32 `json:"score_threshold"`
}

type MemoryConfig struct {
	WindowSize int `json:"window_size"`
	TTLHours   int `json:"ttl_hours"`
}

type LeadConfig struct {
	Stoplist          []string `json:"stoplist"`
	DisposableDomains []string `json:"disposable_domains"`
}

type EmailCheckConfig struct {
	Endpoint string `json:"endpoint"`
	Timeout  int    `json:"timeout"`
}

type AdminConfig struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	JWTSecret    string `json:"jwt_secret"`
	JWTTTLHours  int    `json:"jwt_ttl_hours"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ScheduleConfig struct {
	ChatLogKeepDays int    `json:"chat_log_keep_days"`
	RetentionSpec   string `json:"retention_spec"`
	GapDigestSpec   string `json:"gap_digest_spec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DBDsn == "" {
		return nil, fmt.Errorf("db_dsn is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis.addr is required")
	}
	if cfg.AI.Chat.Provider == "" || cfg.AI.Embed.Provider == "" {
		return nil, fmt.Errorf("ai.chat.provider and ai.embed.provider are required")
	}
	if cfg.Admin.Username == "" || cfg.Admin.PasswordHash == "" || cfg.Admin.JWTSecret == "" {
		return nil, fmt.Errorf("admin.username/password_hash/jwt_secret are required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.AI.MaxMessageChars == 0 {
		cfg.AI.MaxMessageChars = 4000
	}
	if cfg.AI.EmbedCacheSize == 0 {
		cfg.AI.EmbedCacheSize = 10000
	}
	if cfg.AI.EmbedCacheTTL == 0 {
		cfg.AI.EmbedCacheTTL = 2
	}
	if cfg.VectorStore.Backend == "" {
		cfg.VectorStore.Backend = "redis"
	}
	switch cfg.VectorStore.Backend {
	case "redis", "pgvector":
	default:
		return nil, fmt.Errorf("vector_store.backend must be redis or pgvector")
	}
	if cfg.VectorStore.TopK == 0 {
		cfg.VectorStore.TopK = 5
	}
	if cfg.VectorStore.ScoreThreshold == 0 {
		cfg.VectorStore.ScoreThreshold = 0.5
	}
	if cfg.Memory.WindowSize == 0 {
		cfg.Memory.WindowSize = 10
	}
	if cfg.Memory.TTLHours == 0 {
		cfg.Memory.TTLHours = 24
	}
	if cfg.Admin.JWTTTLHours == 0 {
		cfg.Admin.JWTTTLHours = 72
	}
	if cfg.EmailCheck.Timeout == 0 {
		cfg.EmailCheck.Timeout = 5
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Schedule.ChatLogKeepDays == 0 {
		cfg.Schedule.ChatLogKeepDays = 90
	}
	if cfg.Schedule.RetentionSpec == "" {
		cfg.Schedule.RetentionSpec = "30 3 * * *"
	}
	if cfg.Schedule.GapDigestSpec == "" {
		cfg.Schedule.GapDigestSpec = "0 9 * * 1"
	}
	if cfg.BrandName == "" {
		cfg.BrandName = "our company"
	}
	if cfg.ChatRateLimitMS == 0 {
		cfg.ChatRateLimitMS = 1000
	}
	return &cfg, nil
}
