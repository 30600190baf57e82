package quizsession

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled task. It is safe to call more than once.
type CancelFunc func()

// Scheduler runs fn every d until the returned CancelFunc is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) CancelFunc
}

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TickerScheduler drives tasks from a time.Ticker on its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) CancelFunc {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
	}
}
