package routes

import (
	"github.com/ralfarishi/fin-track/controllers"
	"github.com/ralfarishi/fin-track/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	// 1. Публичный отчёт по токену: WebSocket живых обновлений + HTTP
	api.Get("/share/ws/:token", websocket.New(controllers.SharedReportWS))
	api.Get("/share/:token", controllers.GetSharedReport)

	// 2. AUTH
	auth := api.Group("/auth")
	auth.Post("/register", controllers.Register)
	auth.Post("/login",    controllers.Login)
	auth.Post("/refresh",  controllers.Refresh)
	auth.Post("/logout",   middleware.JWTProtected(), controllers.Logout)

	// 3. PROPERTIES
	props := api.Group("/properties", middleware.JWTProtected())
	props.Post("/", controllers.CreateProperty)
	props.Get("/", controllers.GetProperties)
	props.Delete("/:id", controllers.DeleteProperty)
	props.Get("/:id/transactions", controllers.GetTransactions)
	props.Get("/:id/report", controllers.GetPropertyReport)

	// 4. SHARE (владелец)
	props.Post("/:id/share", controllers.GenerateShareToken)
	props.Delete("/:id/share", controllers.RevokeShareToken)
	props.Get("/:id/share", controllers.GetShareStatus)
	props.Post("/:id/share/send", controllers.SendShareLink)

	// 5. TRANSACTIONS
	tx := api.Group("/transactions", middleware.JWTProtected())
	tx.Post("/", controllers.CreateTransaction)
	tx.Delete("/:id", controllers.DeleteTransaction)
}
