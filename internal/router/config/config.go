package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string        `mapstructure:"POSTGRES_CONN"`
	PostgresUser  string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass  string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost  string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort  string        `mapstructure:"POSTGRES_PORT"`
	PostgresDB    string        `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL  string        `mapstructure:"MIGRATION_URL"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
	SMTPHost      string        `mapstructure:"SMTP_HOST"`
	SMTPPort      string        `mapstructure:"SMTP_PORT"`
	SMTPUser      string        `mapstructure:"SMTP_USER"`
	SMTPPass      string        `mapstructure:"SMTP_PASS"`
	MailFrom      string        `mapstructure:"MAIL_FROM"`
	MailFromName  string        `mapstructure:"MAIL_FROM_NAME"`
	BaseURL       string        `mapstructure:"BASE_URL"`
	// VerificationReviewers - идентификаторы проверяющих через запятую.
	VerificationReviewers string `mapstructure:"VERIFICATION_REVIEWERS"`
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (cfg Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("TOKEN_TTL", "24h")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}
	err = viper.Unmarshal(&cfg)
	return
}
