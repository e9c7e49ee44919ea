package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string `mapstructure:"ENV"`
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	CORSAllowed string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	CronSecret string `mapstructure:"CRON_SECRET"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`

	AlertWindow    time.Duration `mapstructure:"ALERT_WINDOW"`
	RateLimitRPS   int           `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`

	NCTimsCounty string `mapstructure:"NC_TIMS_COUNTY"`
	TomTomAPIKey string `mapstructure:"TOMTOM_API_KEY"`
	TomTomBBox   string `mapstructure:"TOMTOM_BBOX"`
	DOTFeedURL   string `mapstructure:"DOT_FEED_URL"`

	ResendAPIKey    string `mapstructure:"RESEND_API_KEY"`
	AlertFromEmail  string `mapstructure:"ALERT_FROM_EMAIL"`
	AlertToFallback string `mapstructure:"ALERT_TO_FALLBACK"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	PushWebhookURL string `mapstructure:"PUSH_WEBHOOK_URL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("ALERT_WINDOW", "1h")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("NC_TIMS_COUNTY", "60")
	v.SetDefault("TOMTOM_BBOX", "-81.1,35.0,-80.6,35.4")
	v.SetDefault("ALERT_FROM_EMAIL", "alerts@example.com")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
