package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "munchclub", cfg.DB.Name)
	assert.Equal(t, 5*time.Second, cfg.Printer.Timeout)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, 10, cfg.Limits.PrinterRefreshBurst)
	assert.Equal(t, 1.0, cfg.Limits.PrinterRefreshPerSec)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=munchclub sslmode=disable", cfg.GetDBConnString())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PRINTER_GATEWAY_URL", "https://printer.example.com/api/")
	t.Setenv("PRINTER_GATEWAY_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "https://printer.example.com/api", cfg.Printer.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Printer.Timeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("printer timeout", func(t *testing.T) {
		t.Setenv("PRINTER_GATEWAY_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("refresh rate", func(t *testing.T) {
		t.Setenv("PRINTER_REFRESH_RATE", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
