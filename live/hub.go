// Package live раздает изменения операций открытым публичным отчётам.
// Вместо глобальной карты комнат — хаб с явными подписками: подписчик
// получает канал и ручку отмены, которую обязан закрыть при уходе.
package live

import (
	"sync"

	"github.com/ralfarishi/fin-track/models"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

type Event struct {
	Type        EventType          `json:"type"`
	Transaction models.Transaction `json:"transaction"`
}

// Subscription — подписка одного открытого отчёта на изменения объекта.
type Subscription struct {
	C chan Event

	hub        *Hub
	propertyID string
	once       sync.Once
}

// Close снимает подписку. Повторный вызов безопасен.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Subscription]bool // rooms[propertyID] = подписки
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscription]bool)}
}

// Subscribe регистрирует нового слушателя изменений по объекту.
func (h *Hub) Subscribe(propertyID string) *Subscription {
	sub := &Subscription{
		C:          make(chan Event, 16),
		hub:        h,
		propertyID: propertyID,
	}

	h.mu.Lock()
	if h.rooms[propertyID] == nil {
		h.rooms[propertyID] = make(map[*Subscription]bool)
	}
	h.rooms[propertyID][sub] = true
	h.mu.Unlock()

	return sub
}

// Publish рассылает событие всем подписчикам объекта.
// Медленный подписчик событие теряет — лента не гарантирует доставку,
// у клиента всегда есть полная перезагрузка.
func (h *Hub) Publish(propertyID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.rooms[propertyID] {
		select {
		case sub.C <- ev:
		default:
		}
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.rooms[sub.propertyID], sub)
	if len(h.rooms[sub.propertyID]) == 0 {
		delete(h.rooms, sub.propertyID)
	}
	h.mu.Unlock()
	close(sub.C)
}

// Subscribers — число открытых подписок по объекту.
func (h *Hub) Subscribers(propertyID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[propertyID])
}
