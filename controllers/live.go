package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/ralfarishi/fin-track/config"
	"github.com/ralfarishi/fin-track/models"
)

// безопасная запись в сокет (клиент мог уже закрыть вкладку)
func safeWrite(conn *websocket.Conn, payload []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil && !websocket.IsCloseError(err) {
		log.Printf("WS write error: %v", err)
	}
}

// SharedReportWS — живые обновления публичного отчёта.
// Доступ по тому же токену, что и GET /share/:token: неизвестный или
// просроченный токен — соединение закрывается сразу.
func SharedReportWS(c *websocket.Conn) {
	/* 1. ─── валидация токена ───────────────────────────────*/
	token := c.Params("token")
	if !validUUID(token) {
		c.Close()
		return
	}

	var property models.Property
	if err := config.DB.Where("share_token = ?", token).First(&property).Error; err != nil {
		c.Close()
		return
	}
	if property.ShareExpired(time.Now()) {
		c.Close()
		return
	}

	/* 2. ─── подписка на изменения объекта ──────────────────*/
	sub := hub.Subscribe(property.ID)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub.C {
			payload, _ := json.Marshal(struct {
				Event string             `json:"event"`
				Data  models.Transaction `json:"data"`
			}{"transaction:" + string(ev.Type), ev.Transaction})
			safeWrite(c, payload)
		}
	}()

	/* 3. ─── держим соединение до ухода клиента ─────────────*/
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	sub.Close()
	<-done
	c.Close()
}
