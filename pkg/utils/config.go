package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Payment  PaymentConfig
	Sweeper  SweeperConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	TimeZone string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
}

type SessionConfig struct {
	ExpiryHours int
}

type PaymentConfig struct {
	CulqiBaseURL           string
	CulqiPublicKey         string
	CulqiPrivateKey        string
	WebhookSecret          string
	ConsultationPriceCents int64
	Currency               string
	PendingTTL             time.Duration
}

type SweeperConfig struct {
	Interval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("TIMEZONE", "America/Lima")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 168)
	viper.SetDefault("CULQI_BASE_URL", "https://api.culqi.com/v2")
	viper.SetDefault("CONSULTATION_PRICE_CENTS", 10000)
	viper.SetDefault("CURRENCY", "PEN")
	viper.SetDefault("PENDING_PAYMENT_TTL", "24h")
	viper.SetDefault("SWEEPER_INTERVAL", "5m")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			TimeZone: viper.GetString("TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Username: viper.GetString("REDIS_USERNAME"),
			Password: viper.GetString("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Payment: PaymentConfig{
			CulqiBaseURL:           viper.GetString("CULQI_BASE_URL"),
			CulqiPublicKey:         viper.GetString("CULQI_PUBLIC_KEY"),
			CulqiPrivateKey:        viper.GetString("CULQI_PRIVATE_KEY"),
			WebhookSecret:          viper.GetString("CULQI_WEBHOOK_SECRET"),
			ConsultationPriceCents: viper.GetInt64("CONSULTATION_PRICE_CENTS"),
			Currency:               viper.GetString("CURRENCY"),
			PendingTTL:             viper.GetDuration("PENDING_PAYMENT_TTL"),
		},
		Sweeper: SweeperConfig{
			Interval: viper.GetDuration("SWEEPER_INTERVAL"),
		},
	}

	return config, nil
}
