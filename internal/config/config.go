package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type NotifyConfig struct {
	Channel     string
	Recipient   string
	QueueSize   int
	Workers     int
	MaxAttempts int
	BaseDelay   time.Duration
	DedupWindow time.Duration

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	TelegramToken    string
}

type WorkorderConfig struct {
	PublicBaseURL string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Notify      NotifyConfig
	Workorder   WorkorderConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Notify: NotifyConfig{
			Channel:          v.GetString("NOTIFY_CHANNEL"),
			Recipient:        v.GetString("NOTIFY_RECIPIENT"),
			QueueSize:        v.GetInt("NOTIFY_QUEUE_SIZE"),
			Workers:          v.GetInt("NOTIFY_WORKERS"),
			MaxAttempts:      v.GetInt("NOTIFY_MAX_ATTEMPTS"),
			BaseDelay:        v.GetDuration("NOTIFY_BASE_DELAY"),
			DedupWindow:      v.GetDuration("NOTIFY_DEDUP_WINDOW"),
			TwilioAccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			TwilioFrom:       v.GetString("TWILIO_FROM_NUMBER"),
			TelegramToken:    v.GetString("TELEGRAM_BOT_TOKEN"),
		},
		Workorder: WorkorderConfig{
			PublicBaseURL: v.GetString("WORKORDER_PUBLIC_BASE_URL"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Notify.Channel == "" {
		cfg.Notify.Channel = "log"
	}
	if cfg.Workorder.PublicBaseURL == "" {
		cfg.Workorder.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Notify.Channel == "twilio" && (cfg.Notify.TwilioAccountSID == "" || cfg.Notify.TwilioAuthToken == "" || cfg.Notify.TwilioFrom == "") {
		return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required for the twilio channel")
	}
	if cfg.Notify.Channel == "telegram" && cfg.Notify.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required for the telegram channel")
	}
	return nil
}
