package auth

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

// loginThrottle — token bucket над историей попыток входа в хранилище.
// Каждый запуск CLI восстанавливает состояние ведра, проигрывая
// сохранённые моменты разрешённых попыток.
type loginThrottle struct {
	attempts *storage.Collection[time.Time]
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func newLoginThrottle(backend storage.Backend, r float64, burst int) *loginThrottle {
	if r <= 0 || backend == nil {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &loginThrottle{
		attempts: storage.NewCollection[time.Time](backend, storage.KeyLoginAttempts),
		limit:    rate.Limit(r),
		burst:    burst,
		now:      time.Now,
	}
}

// allow расходует один токен. Отказ не записывается в историю.
func (t *loginThrottle) allow(ctx context.Context) (bool, error) {
	allowed := false
	err := t.attempts.Mutate(ctx, func(history []time.Time) ([]time.Time, error) {
		now := t.now()
		limiter := rate.NewLimiter(t.limit, t.burst)
		for _, at := range history {
			limiter.AllowN(at, 1)
		}
		if !limiter.AllowN(now, 1) {
			return nil, storage.ErrSkipWrite
		}
		allowed = true
		history = append(history, now)
		// Старше последних burst попыток история не хранится.
		if len(history) > t.burst {
			history = history[len(history)-t.burst:]
		}
		return history, nil
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}
