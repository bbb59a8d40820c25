package app

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstore/internal/messaging/kafka"
)

// EnvPrefix — префикс переменных окружения конфигурации.
const EnvPrefix = "ORDERSTORE"

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки orderctl. Значения читаются из переменных
// окружения ORDERSTORE_*, флаги CLI переопределяют их.
type Config struct {
	StorageDriver       string `envconfig:"STORAGE_DRIVER" default:"memory"`
	PostgresDSN         string `envconfig:"POSTGRES_DSN"`
	PostgresAutoMigrate bool   `envconfig:"POSTGRES_AUTO_MIGRATE" default:"true"`
	KafkaBrokers        string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic          string `envconfig:"KAFKA_TOPIC" default:"orderstore.order.events"`
	LogLevel            string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsTextfile     string `envconfig:"METRICS_TEXTFILE"`
}

// DefaultConfig возвращает конфигурацию для работы в памяти без Kafka.
func DefaultConfig() Config {
	return Config{
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		KafkaTopic:          kafka.TopicOrderEvents,
		LogLevel:            "info",
	}
}

// ReadEnv читает конфигурацию из окружения без проверки, чтобы флаги CLI
// могли дополнить её до вызова Validate.
func ReadEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}
	return cfg, nil
}

// LoadConfig читает конфигурацию из окружения и проверяет её.
func LoadConfig() (Config, error) {
	cfg, err := ReadEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("postgres DSN is required for storage driver %q", StorageDriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if len(c.KafkaBrokerList()) > 0 && strings.TrimSpace(c.KafkaTopic) == "" {
		return fmt.Errorf("kafka topic is required when brokers are configured")
	}
	return nil
}

// KafkaBrokerList разбирает список брокеров через запятую, пустые элементы отбрасываются.
func (c Config) KafkaBrokerList() []string {
	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
