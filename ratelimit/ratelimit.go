// Package ratelimit — простой in-memory лимитер с фиксированным окном.
// Состояние живет внутри процесса: рестарт сбрасывает все счётчики,
// на несколько инстансов лимит не распространяется. Это осознанное
// ограничение — лимитер защищает формы, а не границу безопасности.
package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

type Config struct {
	Max    int           // максимум запросов в окне
	Window time.Duration // длительность окна
}

// Типовые лимиты.
var (
	LoginLimit = Config{Max: 5, Window: time.Minute}   // попытки входа
	ShareLimit = Config{Max: 10, Window: time.Hour}    // выпуск публичных ссылок
	APILimit   = Config{Max: 100, Window: time.Minute} // общий лимит
)

type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration // сколько ждать до сброса окна
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter создается явно и передается в контроллеры — чтобы в будущем
// можно было подменить на внешнее хранилище при нескольких инстансах.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time // подменяется в тестах
}

func New() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check регистрирует одну попытку по ключу и говорит, пропускать ли её.
func (l *Limiter) Check(key string, cfg Config) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Изредка выметаем просроченные записи, таймер не заводим
	if rand.Float64() < 0.01 {
		l.sweep(now)
	}

	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		// Нет записи или окно истекло — начинаем новое окно
		l.entries[key] = &entry{count: 1, resetAt: now.Add(cfg.Window)}
		return Result{Allowed: true, Remaining: cfg.Max - 1, ResetIn: cfg.Window}
	}

	e.count++
	resetIn := e.resetAt.Sub(now)
	remaining := cfg.Max - e.count
	if remaining < 0 {
		remaining = 0
	}

	if e.count > cfg.Max {
		return Result{Allowed: false, Remaining: 0, ResetIn: resetIn}
	}
	return Result{Allowed: true, Remaining: remaining, ResetIn: resetIn}
}

func (l *Limiter) sweep(now time.Time) {
	for key, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, key)
		}
	}
}
