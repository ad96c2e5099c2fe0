package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Modos del canal push.
const (
	RealtimeStomp = "stomp"
	RealtimeKafka = "kafka"
	RealtimeOff   = "off"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Backend  BackendConfig
	Breaker  BreakerConfig
	Realtime RealtimeConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// JWTConfig configuración de JWT. Con Secret vacío los tokens del backend se
// decodifican sin verificar la firma.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig API REST de inventario.
type BackendConfig struct {
	BaseURL      string
	Timeout      time.Duration // por petición
	ServiceToken string        // credencial para recargas disparadas por push
	PageSize     int
	MaxPages     int
}

// BreakerConfig circuit breaker frente al backend.
type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// RealtimeConfig canal push (STOMP sobre WebSocket).
type RealtimeConfig struct {
	Mode         string // stomp | kafka | off
	WSURL        string
	ProductTopic string
	AlertTopic   string
	HeartBeat    time.Duration // latidos STOMP ofrecidos al broker
}

// KafkaConfig alternativa al canal STOMP.
type KafkaConfig struct {
	Brokers      []string
	GroupID      string
	ProductTopic string
	AlertTopic   string
}

// RedisConfig almacén del último tablero. Addr vacío = memoria local.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-consola"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "inventario"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Backend: BackendConfig{
			BaseURL:      strings.TrimRight(getString(v, "BACKEND_BASE_URL", "http://localhost:8080/api"), "/"),
			Timeout:      time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 10)) * time.Second,
			ServiceToken: getString(v, "BACKEND_SERVICE_TOKEN", ""),
			PageSize:     getInt(v, "BACKEND_PAGE_SIZE", 100),
			MaxPages:     getInt(v, "BACKEND_MAX_PAGES", 500),
		},
		Breaker: BreakerConfig{
			FailureThreshold: uint32(getInt(v, "BREAKER_FAILURE_THRESHOLD", 5)),
			OpenTimeout:      time.Duration(getInt(v, "BREAKER_OPEN_SECONDS", 30)) * time.Second,
		},
		Realtime: RealtimeConfig{
			Mode:         strings.ToLower(getString(v, "REALTIME_MODE", RealtimeStomp)),
			WSURL:        getString(v, "REALTIME_WS_URL", "ws://localhost:8080/ws/websocket"),
			ProductTopic: getString(v, "REALTIME_PRODUCT_TOPIC", "/topic/productos"),
			AlertTopic:   getString(v, "REALTIME_ALERT_TOPIC", "/topic/alertas"),
			HeartBeat:    time.Duration(getInt(v, "REALTIME_HEARTBEAT_SECONDS", 10)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(getString(v, "KAFKA_BROKERS", "")),
			GroupID:      getString(v, "KAFKA_GROUP_ID", "inventario-consola"),
			ProductTopic: getString(v, "KAFKA_PRODUCT_TOPIC", "inventario.productos"),
			AlertTopic:   getString(v, "KAFKA_ALERT_TOPIC", "inventario.alertas"),
		},
		Redis: RedisConfig{
			Addr:        getString(v, "REDIS_ADDR", ""),
			Password:    getString(v, "REDIS_PASSWORD", ""),
			DB:          getInt(v, "REDIS_DB", 0),
			SnapshotTTL: time.Duration(getInt(v, "SNAPSHOT_TTL_SECONDS", 300)) * time.Second,
		},
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Realtime.Mode {
	case RealtimeStomp, RealtimeOff:
	case RealtimeKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: REALTIME_MODE=kafka requiere KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("config: REALTIME_MODE inválido %q (stomp, kafka u off)", c.Realtime.Mode)
	}
	if c.Backend.PageSize <= 0 {
		return fmt.Errorf("config: BACKEND_PAGE_SIZE debe ser mayor que 0")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
