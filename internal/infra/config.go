package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	PromptProviderPollinations = "pollinations"
	PromptProviderGemini       = "gemini"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	LogLevel           string
	LogFile            string
	LogMaxSizeMB       int
	LogMaxBackups      int
	LogMaxAgeDays      int
	CORSAllowedOrigins []string

	CatalogPath        string
	CatalogDatabaseURL string

	ImageBaseURL   string
	ImageModel     string
	ImageNegative  string
	ImagePrivate   bool
	ImageTimeout   time.Duration
	PromptProvider string
	TextBaseURL    string
	TextTimeout    time.Duration
	GeminiAPIKey   string
	GeminiModel    string

	FontPath     string
	CanvasWidth  int
	CanvasHeight int
	FetchTimeout time.Duration
	OutputDir    string
	OutputRetain bool
	RandomSeed   uint64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogFile:            os.Getenv("LOG_FILE"),
		LogMaxSizeMB:       getEnvInt("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays:      getEnvInt("LOG_MAX_AGE_DAYS", 14),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		CatalogPath:        os.Getenv("CATALOG_PATH"),
		CatalogDatabaseURL: os.Getenv("CATALOG_DATABASE_URL"),
		ImageBaseURL:       getEnv("IMAGE_BASE_URL", "https://pollinations.ai/p/"),
		ImageModel:         getEnv("IMAGE_MODEL", "flux"),
		ImageNegative:      os.Getenv("IMAGE_NEGATIVE_PROMPT"),
		ImagePrivate:       getEnvBool("IMAGE_PRIVATE", false),
		ImageTimeout:       time.Second * time.Duration(getEnvInt("IMAGE_TIMEOUT_SECONDS", 60)),
		PromptProvider:     strings.ToLower(getEnv("PROMPT_PROVIDER", PromptProviderPollinations)),
		TextBaseURL:        getEnv("TEXT_BASE_URL", "https://text.pollinations.ai/"),
		TextTimeout:        time.Second * time.Duration(getEnvInt("TEXT_TIMEOUT_SECONDS", 30)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		FontPath:           getEnv("FONT_PATH", "Arial.ttf"),
		CanvasWidth:        getEnvInt("CANVAS_WIDTH", 864),
		CanvasHeight:       getEnvInt("CANVAS_HEIGHT", 1152),
		FetchTimeout:       time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 60)),
		OutputDir:          getEnv("OUTPUT_DIR", filepath.Join(os.TempDir(), "cover-images")),
		OutputRetain:       getEnvBool("OUTPUT_RETAIN", false),
		RandomSeed:         uint64(getEnvInt("RANDOM_SEED", 0)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.PromptProvider {
	case PromptProviderPollinations:
	case PromptProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when PROMPT_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("unsupported PROMPT_PROVIDER %q", cfg.PromptProvider)
	}

	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
