package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени для реестра.
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает системное время в UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock управляемые часы для тестов.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// UnixNano переводит время в беззнаковые наносекунды; время до эпохи даёт 0.
func UnixNano(t time.Time) uint64 {
	ns := t.UnixNano()
	if ns < 0 {
		return 0
	}

	return uint64(ns)
}
