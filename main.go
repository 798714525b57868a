package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/controllers"
	"github.com/ralfarishi/fin-track/live"
	"github.com/ralfarishi/fin-track/mail"
	"github.com/ralfarishi/fin-track/ratelimit"
	"github.com/ralfarishi/fin-track/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("Файл .env не найден, используются переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Ошибка конфигурации: %v", err)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		logrus.Fatalf("Не удалось подключиться к базе: %v", err)
	}

	controllers.Setup(ratelimit.New(), live.NewHub(), mail.NewMailService())

	app := fiber.New()
	routes.Setup(app)

	logrus.Infof("Сервер запущен на порту %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}
