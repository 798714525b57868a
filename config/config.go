package config

import (
	"github.com/caarlos0/env/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ralfarishi/fin-track/models"
)

// DB — глобальное подключение к базе, контроллеры обращаются к нему напрямую
var DB *gorm.DB

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        string `env:"PORT" envDefault:"8080"`
	ClientURL   string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	JWTSecret        string `env:"JWT_SECRET,required"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET,required"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ConnectDatabase(cfg *Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	return nil
}

// Migrate вынесена отдельно — тесты поднимают in-memory sqlite с теми же таблицами
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Transaction{},
		&models.ShareVisit{},
	)
}
