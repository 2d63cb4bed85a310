package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"vision-measure/internal/domain/entity"
)

// DefaultTrackingURI адрес MLflow по умолчанию
const DefaultTrackingURI = "http://localhost:5000"

type Config struct {
	TrackingURI      string // MLFLOW_TRACKING_URI
	TrackingToken    string // MLFLOW_TRACKING_TOKEN
	TrackingUsername string // MLFLOW_TRACKING_USERNAME
	TrackingPassword string // MLFLOW_TRACKING_PASSWORD

	Net       string // LPIPS_NET: alex, vgg или squeeze
	ModelPath string // LPIPS_MODEL_PATH, по умолчанию weights/lpips_<net>.onnx

	ResultsDB string // RESULTS_DB, если пусто, архив не ведётся

	TelegramToken  string // TELEGRAM_TOKEN, если пусто, уведомления выключены
	TelegramChatID int64  // TELEGRAM_CHAT_ID

	LogLevel string // LOG_LEVEL
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TrackingURI:      getenv("MLFLOW_TRACKING_URI", DefaultTrackingURI),
		TrackingToken:    os.Getenv("MLFLOW_TRACKING_TOKEN"),
		TrackingUsername: os.Getenv("MLFLOW_TRACKING_USERNAME"),
		TrackingPassword: os.Getenv("MLFLOW_TRACKING_PASSWORD"),
		Net:              getenv("LPIPS_NET", string(entity.BackboneAlex)),
		ModelPath:        os.Getenv("LPIPS_MODEL_PATH"),
		ResultsDB:        os.Getenv("RESULTS_DB"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = chatID
	}

	return cfg, nil
}

// ResolvedModelPath возвращает путь к весам LPIPS для выбранной сети
func (c *Config) ResolvedModelPath() string {
	if c.ModelPath != "" {
		return c.ModelPath
	}
	return fmt.Sprintf("weights/lpips_%s.onnx", c.Net)
}

// NotificationsEnabled сообщает, настроены ли уведомления в Telegram
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != ""
}

// Validate проверяет значения после загрузки и применения флагов
func (c *Config) Validate() error {
	u, err := url.Parse(c.TrackingURI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid MLFLOW_TRACKING_URI %q (use http(s)://host:port)", c.TrackingURI)
	}
	if _, err := entity.ParseBackbone(c.Net); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
