package discord

import (
	"sync"
	"time"
)

// clickLimiter spaces out button presses per user so one trigger-happy
// member can't flood the store with join/leave churn.
type clickLimiter struct {
	mu       sync.Mutex
	nextByID map[string]time.Time
	window   time.Duration
}

func newClickLimiter(window time.Duration) *clickLimiter {
	return &clickLimiter{nextByID: map[string]time.Time{}, window: window}
}

func (l *clickLimiter) Allow(userID string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.nextByID[userID]; ok && now.Before(until) {
		return false
	}
	l.nextByID[userID] = now.Add(l.window)
	return true
}
