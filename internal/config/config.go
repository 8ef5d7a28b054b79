package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Provider 标识聊天模型的提供方。
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderArk    Provider = "ark"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Log     LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	var raw rawConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	server, err := loadServerConfig(raw.Port)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig(raw)
	if err != nil {
		return nil, err
	}

	if raw.SessionIdleTTL < 0 {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TTL value %s", raw.SessionIdleTTL)
	}
	if raw.RevealInterval <= 0 {
		return nil, fmt.Errorf("invalid REVEAL_INTERVAL value %s", raw.RevealInterval)
	}
	server.RevealInterval = raw.RevealInterval

	return &Config{
		Server: server,
		AI:     ai,
		Session: SessionConfig{
			IdleTTL:       raw.SessionIdleTTL,
			SweepInterval: raw.SessionSweepInterval,
		},
		Log: LogConfig{
			Level:  raw.LogLevel,
			Format: raw.LogFormat,
		},
	}, nil
}

type rawConfig struct {
	Port                 string        `env:"PORT" envDefault:"3000"`
	GeminiAPIKey         string        `env:"GEMINI_API_KEY,required,notEmpty"`
	Provider             string        `env:"AI_PROVIDER" envDefault:"gemini"`
	ChatModel            string        `env:"CHAT_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel           string        `env:"IMAGE_MODEL" envDefault:"imagen-3.0-generate-002"`
	PersonaID            string        `env:"PERSONA_ID" envDefault:"health-advisor"`
	ArkAPIKey            string        `env:"ARK_API_KEY"`
	ArkAccessKey         string        `env:"ARK_ACCESS_KEY"`
	ArkSecretKey         string        `env:"ARK_SECRET_KEY"`
	ArkModel             string        `env:"ARK_MODEL"`
	ArkBaseURL           string        `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion            string        `env:"ARK_REGION" envDefault:"cn-beijing"`
	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"0"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	RevealInterval       time.Duration `env:"REVEAL_INTERVAL" envDefault:"5ms"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"console"`
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	RevealInterval time.Duration
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(port string) (ServerConfig, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "3000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3000" 或 "127.0.0.1:3000"。
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// SessionConfig controls the lifetime of in-memory conversations.
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider     Provider
	GeminiAPIKey string
	ChatModel    string
	ImageModel   string
	PersonaID    string
	Ark          ArkConfig
}

// ArkConfig holds the credentials of the alternate Ark chat provider.
type ArkConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用 Ark 配置创建一个模型实例。
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig(raw rawConfig) (AIConfig, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(raw.Provider)))
	switch provider {
	case ProviderGemini, ProviderArk:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", raw.Provider)
	}

	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		Provider:     provider,
		GeminiAPIKey: strings.TrimSpace(raw.GeminiAPIKey),
		ChatModel:    strings.TrimSpace(raw.ChatModel),
		ImageModel:   strings.TrimSpace(raw.ImageModel),
		PersonaID:    strings.TrimSpace(raw.PersonaID),
		Ark: ArkConfig{
			APIKey:      strings.TrimSpace(raw.ArkAPIKey),
			AccessKey:   strings.TrimSpace(raw.ArkAccessKey),
			SecretKey:   strings.TrimSpace(raw.ArkSecretKey),
			Model:       strings.TrimSpace(raw.ArkModel),
			BaseURL:     strings.TrimSpace(raw.ArkBaseURL),
			Region:      strings.TrimSpace(raw.ArkRegion),
			Temperature: temperature,
			TopP:        topP,
			MaxTokens:   maxTokens,
		},
	}

	if provider == ProviderArk && !cfg.Ark.Enabled() {
		return AIConfig{}, fmt.Errorf("AI_PROVIDER=ark requires ARK_MODEL and ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	return cfg, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
