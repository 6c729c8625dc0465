package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/samber/lo"
)

// Model provider presets. A preset selects both the transcription provider and
// the analysis backend unless one of them is overridden explicitly.
const (
	ModelProviderLocal  = "local"
	ModelProviderOpenAI = "openai"
)

// Transcription provider names
const (
	TranscriptionWhisperCpp    = "whisper_cpp"
	TranscriptionWhisperServer = "whisper_server"
	TranscriptionOpenAI        = "openai"
)

// Analysis backend names
const (
	AnalysisOllama = "ollama"
	AnalysisOpenAI = "openai"
	AnalysisGemini = "gemini"
)

// Session store names
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config is the full application configuration. Values come from the
// environment (after .env files are loaded) and optionally from a YAML file.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Limits    LimitsConfig    `yaml:"limits"`
	Providers ProvidersConfig `yaml:"providers"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	Session   SessionConfig   `yaml:"session"`
	History   HistoryConfig   `yaml:"history"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

type AppConfig struct {
	Title       string `yaml:"title" env:"APP_TITLE" env-default:"Voice Analysis Toolkit"`
	Description string `yaml:"description" env:"APP_DESCRIPTION" env-default:"Upload an audio file to transcribe, summarize, and analyze its content."`
	Environment string `yaml:"environment" env:"ENVIRONMENT" env-default:"development"`
	PromptsFile string `yaml:"prompts_file" env:"PROMPTS_FILE"`
}

type ServerConfig struct {
	Host         string        `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"PORT" env-default:"7860"`
	UploadDir    string        `yaml:"upload_dir" env:"UPLOAD_DIR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"60s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15m"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
}

type LogConfig struct {
	FilePath   string `yaml:"file_path" env:"LOG_FILE_PATH" env-default:"logs/app.log"`
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
}

type LimitsConfig struct {
	MaxFileSizeMB     int      `yaml:"max_file_size_mb" env:"MAX_FILE_SIZE_MB" env-default:"25"`
	MaxFileLengthMins int      `yaml:"max_file_length_mins" env:"MAX_FILE_LENGTH_MINS" env-default:"10"`
	AllowedExtensions []string `yaml:"allowed_extensions" env:"ALLOWED_FILE_EXTENSIONS" env-separator:"," env-default:".mp3,.wav,.m4a,.flac,.ogg"`
}

type ProvidersConfig struct {
	ModelProvider string        `yaml:"model_provider" env:"MODEL_PROVIDER" env-default:"local"`
	Transcription string        `yaml:"transcription" env:"TRANSCRIPTION_PROVIDER"`
	Analysis      string        `yaml:"analysis" env:"ANALYSIS_PROVIDER"`
	Fallback      []string      `yaml:"fallback" env:"TRANSCRIPTION_FALLBACK" env-separator:","`
	Timeout       time.Duration `yaml:"timeout" env:"PROVIDER_TIMEOUT" env-default:"5m"`
	MaxRetries    int           `yaml:"max_retries" env:"PROVIDER_MAX_RETRIES" env-default:"2"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"PROVIDER_RETRY_DELAY" env-default:"1s"`
}

type OpenAIConfig struct {
	APIKey             string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL            string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	TranscriptionModel string `yaml:"transcription_model" env:"OPENAI_TRANSCRIPTION_MODEL" env-default:"whisper-1"`
	AnalysisModel      string `yaml:"analysis_model" env:"OPENAI_ANALYSIS_MODEL" env-default:"gpt-3.5-turbo"`
}

type OllamaConfig struct {
	Host  string `yaml:"host" env:"OLLAMA_HOST" env-default:"localhost"`
	Port  string `yaml:"port" env:"OLLAMA_PORT" env-default:"11434"`
	Model string `yaml:"model" env:"OLLAMA_MODEL" env-default:"phi3:mini"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-1.5-flash"`
}

type WhisperConfig struct {
	Binary    string `yaml:"binary" env:"WHISPER_CPP_BINARY"`
	Model     string `yaml:"model" env:"WHISPER_CPP_MODEL"`
	Language  string `yaml:"language" env:"WHISPER_LANGUAGE" env-default:"en"`
	ServerURL string `yaml:"server_url" env:"WHISPER_SERVER_URL"`
}

type SessionConfig struct {
	Store    string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"2h"`
}

type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"HISTORY_ENABLED" env-default:"true"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	DBPath      string `yaml:"db_path" env:"HISTORY_DB_PATH" env-default:"data/history.db"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ARCHIVE_ENABLED" env-default:"false"`
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"voice-analysis-transcripts"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

// Load reads the configuration. When path is non-empty the YAML file is read
// first and environment variables override it.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

// MustLoad is Load for process entry points.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) normalize() {
	c.Providers.ModelProvider = strings.ToLower(strings.TrimSpace(c.Providers.ModelProvider))
	c.Providers.Transcription = strings.ToLower(strings.TrimSpace(c.Providers.Transcription))
	c.Providers.Analysis = strings.ToLower(strings.TrimSpace(c.Providers.Analysis))
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))

	exts := lo.Map(c.Limits.AllowedExtensions, func(ext string, _ int) string {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	})
	c.Limits.AllowedExtensions = lo.Uniq(lo.Compact(exts))
	c.Providers.Fallback = lo.Compact(lo.Map(c.Providers.Fallback, func(name string, _ int) string {
		return strings.ToLower(strings.TrimSpace(name))
	}))
}

// TranscriptionProvider resolves the transcription provider name from the
// explicit override or the MODEL_PROVIDER preset.
func (c *Config) TranscriptionProvider() string {
	if c.Providers.Transcription != "" {
		return c.Providers.Transcription
	}
	switch c.Providers.ModelProvider {
	case ModelProviderOpenAI:
		return TranscriptionOpenAI
	case ModelProviderLocal:
		if c.Whisper.Binary == "" && c.Whisper.ServerURL != "" {
			return TranscriptionWhisperServer
		}
		return TranscriptionWhisperCpp
	}
	return ""
}

// AnalysisProvider resolves the LLM backend name.
func (c *Config) AnalysisProvider() string {
	if c.Providers.Analysis != "" {
		return c.Providers.Analysis
	}
	switch c.Providers.ModelProvider {
	case ModelProviderOpenAI:
		return AnalysisOpenAI
	case ModelProviderLocal:
		return AnalysisOllama
	}
	return ""
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr returns the listen address for the web server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
