package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Sheets SheetsConfig
	SMTP   SMTPConfig
	Keys   APIKeys
	Ai     AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WSLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type SheetsConfig struct {
	ProjectURL      string
	LocateURL       string
	ProjectFormat   string // "auto", "xlsx", "xls", "csv"
	LocateFormat    string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	LocateGrace     time.Duration // extra wait for the locate workbook after project data arrives
	RulesPath       string // optional YAML overlay for the roster rules
	MirrorTTL       time.Duration
	RefreshTopic    string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertTo    string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string
	OllamaBaseURL     string
	KnowledgeBasePath string
	SessionTTL        time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WSLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Sheets: SheetsConfig{
			ProjectURL:      getEnv("PROJECT_SHEET_URL", ""),
			LocateURL:       getEnv("LOCATE_SHEET_URL", ""),
			ProjectFormat:   getEnv("PROJECT_SHEET_FORMAT", "auto"),
			LocateFormat:    getEnv("LOCATE_SHEET_FORMAT", "auto"),
			RefreshInterval: getEnvAsDuration("SHEETS_REFRESH_INTERVAL", 5*time.Minute),
			FetchTimeout:    getEnvAsDuration("SHEETS_FETCH_TIMEOUT", 60*time.Second),
			LocateGrace:     getEnvAsDuration("LOCATE_FETCH_GRACE", 2*time.Second),
			RulesPath:       getEnv("SHEETS_RULES_PATH", ""),
			MirrorTTL:       getEnvAsDuration("SNAPSHOT_MIRROR_TTL", 24*time.Hour),
			RefreshTopic:    getEnv("PROJECT_REFRESH_TOPIC_NAME", "PROJECT_DATA_REFRESHED"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "FiberOps Assistant"),
			AlertTo:    getEnv("DATA_ALERT_EMAIL", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", "knowledge/base.md"),
			SessionTTL:        getEnvAsDuration("CHAT_SESSION_TTL", time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
