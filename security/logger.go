// Package security — журнал событий безопасности (вход, выдача и отзыв
// публичных ссылок, удаление данных). Пишем структурированно через logrus,
// чтобы в проде можно было увести вывод в общий сборщик логов.
package security

import (
	"github.com/sirupsen/logrus"
)

type Event string

const (
	LoginSuccess    Event = "auth.login.success"
	LoginFailed     Event = "auth.login.failed"
	Logout          Event = "auth.logout"
	PropertyCreated Event = "property.created"
	PropertyDeleted Event = "property.deleted"
	ShareGenerated  Event = "share.generated"
	ShareRevoked    Event = "share.revoked"
	ShareAccessed   Event = "share.accessed"
	AccessDenied    Event = "access.denied"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// Log фиксирует событие безопасности с контекстом.
func Log(event Event, fields logrus.Fields) {
	log.WithFields(fields).WithField("event", string(event)).Info("security")
}
