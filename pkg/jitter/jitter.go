// Package jitter добавляет случайность в интервалы повторов, чтобы клиенты не долбили
// хранилище одновременно после общего сбоя.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return d + time.Duration(rand.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff вычисляет экспоненциальную задержку с джиттером.
// attempt нумеруется с нуля, задержка до джиттера не превышает maxBackoff.
func ExponentialBackoff(base, maxBackoff time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
			break
		}
	}

	return Duration(backoff, jitterFactor)
}
