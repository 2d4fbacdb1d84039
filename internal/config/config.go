package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Log         LogConfig
	Kafka       KafkaConfig
	Order       OrderConfig
	Fulfillment FulfillmentConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
	RunMigrations   bool
}

type LogConfig struct {
	Level string
}

// KafkaConfig drives the stock-received event consumer. An empty broker
// list disables the consumer; the HTTP endpoint remains available.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type OrderConfig struct {
	ReservationTxTimeout time.Duration
	MaxRetryAttempts     int
}

// FulfillmentConfig holds the shipment-planning constants. These govern
// behavior and must never be hard-coded at call sites.
type FulfillmentConfig struct {
	DefaultCutoffHour  int
	NextDayHour        int
	MaxShipmentsPerDay int
	BusinessDays       []time.Weekday
}

// IsBusinessDay reports whether shipments may depart on the given weekday.
func (c FulfillmentConfig) IsBusinessDay(day time.Weekday) bool {
	for _, d := range c.BusinessDays {
		if d == day {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "30s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "orthanc")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "fulfillment")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MIGRATIONS_PATH", "migrations")
	viper.SetDefault("DB_RUN_MIGRATIONS", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "stock.received")
	viper.SetDefault("KAFKA_GROUP_ID", "orthanc-fulfillment")
	viper.SetDefault("ORDER_TX_TIMEOUT", "5s")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("SHIPMENT_DEFAULT_CUTOFF_HOUR", 14)
	viper.SetDefault("SHIPMENT_NEXT_DAY_HOUR", 9)
	viper.SetDefault("SHIPMENT_MAX_PER_DAY", 10)
	viper.SetDefault("SHIPMENT_BUSINESS_DAYS", "1,2,3,4,5")

	readTimeout, err := time.ParseDuration(viper.GetString("SERVER_READ_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	writeTimeout, err := time.ParseDuration(viper.GetString("SERVER_WRITE_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	idleTimeout, err := time.ParseDuration(viper.GetString("SERVER_IDLE_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("ORDER_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	// KAFKA_BROKERS is a comma-separated list; GetStringSlice would split
	// an env value on whitespace instead.
	var brokers []string
	if raw := viper.GetString("KAFKA_BROKERS"); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}

	var businessDays []time.Weekday
	for _, part := range strings.Split(viper.GetString("SHIPMENT_BUSINESS_DAYS"), ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("invalid business day %q", part)
		}
		businessDays = append(businessDays, time.Weekday(day))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("SERVER_PORT"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			MigrationsPath:  viper.GetString("DB_MIGRATIONS_PATH"),
			RunMigrations:   viper.GetBool("DB_RUN_MIGRATIONS"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   viper.GetString("KAFKA_TOPIC"),
			GroupID: viper.GetString("KAFKA_GROUP_ID"),
		},
		Order: OrderConfig{
			ReservationTxTimeout: txTimeout,
			MaxRetryAttempts:     viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Fulfillment: FulfillmentConfig{
			DefaultCutoffHour:  viper.GetInt("SHIPMENT_DEFAULT_CUTOFF_HOUR"),
			NextDayHour:        viper.GetInt("SHIPMENT_NEXT_DAY_HOUR"),
			MaxShipmentsPerDay: viper.GetInt("SHIPMENT_MAX_PER_DAY"),
			BusinessDays:       businessDays,
		},
	}

	return cfg, nil
}
