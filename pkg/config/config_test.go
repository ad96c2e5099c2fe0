package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 100, cfg.Backend.PageSize)
	assert.Equal(t, 500, cfg.Backend.MaxPages)
	assert.Equal(t, RealtimeStomp, cfg.Realtime.Mode)
	assert.Equal(t, "/topic/productos", cfg.Realtime.ProductTopic)
	assert.Equal(t, "/topic/alertas", cfg.Realtime.AlertTopic)
	assert.Equal(t, 10*time.Second, cfg.Realtime.HeartBeat)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromViper_Sobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND_BASE_URL", "http://inventario:8080/api/")
	v.Set("BACKEND_PAGE_SIZE", "50")
	v.Set("REALTIME_MODE", "KAFKA")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("HTTP_PORT", "no-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "http://inventario:8080/api", cfg.Backend.BaseURL)
	assert.Equal(t, 50, cfg.Backend.PageSize)
	assert.Equal(t, RealtimeKafka, cfg.Realtime.Mode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3000, cfg.HTTP.Port, "un entero inválido vuelve al valor por defecto")
}

func TestFromViper_KafkaSinBrokers(t *testing.T) {
	v := viper.New()
	v.Set("REALTIME_MODE", "kafka")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ModoInvalido(t *testing.T) {
	v := viper.New()
	v.Set("REALTIME_MODE", "sockjs")

	_, err := fromViper(v)
	assert.Error(t, err)
}
