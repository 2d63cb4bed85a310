package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MLFLOW_TRACKING_URI", "MLFLOW_TRACKING_TOKEN", "MLFLOW_TRACKING_USERNAME", "MLFLOW_TRACKING_PASSWORD",
		"LPIPS_NET", "LPIPS_MODEL_PATH", "RESULTS_DB", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultTrackingURI, cfg.TrackingURI)
	require.Equal(t, "alex", cfg.Net)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "weights/lpips_alex.onnx", cfg.ResolvedModelPath())
	require.False(t, cfg.NotificationsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MLFLOW_TRACKING_URI", "https://mlflow.example.com")
	t.Setenv("LPIPS_NET", "vgg")
	t.Setenv("LPIPS_MODEL_PATH", "/models/lpips.onnx")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://mlflow.example.com", cfg.TrackingURI)
	require.Equal(t, "/models/lpips.onnx", cfg.ResolvedModelPath())
	require.Equal(t, int64(-100123), cfg.TelegramChatID)
	require.True(t, cfg.NotificationsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidChatID(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_CHAT_ID", "chat")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{TrackingURI: DefaultTrackingURI, Net: "alex", LogLevel: "debug"}
	require.NoError(t, valid.Validate())

	badURI := valid
	badURI.TrackingURI = "localhost:5000"
	require.Error(t, badURI.Validate())

	badNet := valid
	badNet.Net = "resnet"
	require.Error(t, badNet.Validate())

	badLevel := valid
	badLevel.LogLevel = "loud"
	require.Error(t, badLevel.Validate())

	noChat := valid
	noChat.TelegramToken = "token"
	require.Error(t, noChat.Validate())
}
