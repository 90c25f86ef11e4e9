package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Booking      BookingConfig
	Notification NotificationConfig
}

type AppConfig struct {
	Port           string
	Env            string
	LogLevel       string
	MetricsEnabled bool
	CORSOrigin     string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type BookingConfig struct {
	ReferencePrefix string
	LockCleanup     time.Duration
}

type NotificationConfig struct {
	Channel     string
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("APP_CORS_ORIGIN", "*")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("BOOKING_REFERENCE_PREFIX", "LAB")
	viper.SetDefault("BOOKING_LOCK_CLEANUP", "10m")
	viper.SetDefault("NOTIFY_CHANNEL", "lab-booking:notifications")
	viper.SetDefault("NOTIFY_WORKERS", 4)
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	viper.SetDefault("NOTIFY_SEND_TIMEOUT", "5s")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional when everything comes from the environment
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:           viper.GetString("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			MetricsEnabled: viper.GetBool("METRICS_ENABLED"),
			CORSOrigin:     viper.GetString("APP_CORS_ORIGIN"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			TimeZone:    viper.GetString("DB_TIMEZONE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Booking: BookingConfig{
			ReferencePrefix: viper.GetString("BOOKING_REFERENCE_PREFIX"),
			LockCleanup:     viper.GetDuration("BOOKING_LOCK_CLEANUP"),
		},
		Notification: NotificationConfig{
			Channel:     viper.GetString("NOTIFY_CHANNEL"),
			Workers:     viper.GetInt("NOTIFY_WORKERS"),
			QueueSize:   viper.GetInt("NOTIFY_QUEUE_SIZE"),
			SendTimeout: viper.GetDuration("NOTIFY_SEND_TIMEOUT"),
		},
	}

	return config, nil
}
