package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config — настройки сервиса из переменных окружения.
type Config struct {
	HTTPAddr    string
	ModelPath   string
	ONNXLibPath string

	GeminiAPIKey string

	AlertChannel string // whatsapp или telegram

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	TelegramToken  string
	TelegramChatID int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		ModelPath:   getEnv("MODEL_PATH", "best.onnx"),
		ONNXLibPath: os.Getenv("ONNX_LIB_PATH"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		AlertChannel: getEnv("ALERT_CHANNEL", "whatsapp"),

		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
