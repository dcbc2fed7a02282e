package httpserver

import (
	"sync"
	"time"
)

// feedbackTimers holds at most one pending skip-feedback clear per session.
// Scheduling again for the same session replaces the pending callback.
type feedbackTimers struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newFeedbackTimers(delay time.Duration) *feedbackTimers {
	return &feedbackTimers{delay: delay, timers: make(map[string]*time.Timer)}
}

// schedule runs fn for sessionID after the delay unless cancelled or replaced.
func (f *feedbackTimers) schedule(sessionID string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.timers[sessionID]; ok {
		old.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(f.delay, func() {
		fn()
		f.mu.Lock()
		if f.timers[sessionID] == t {
			delete(f.timers, sessionID)
		}
		f.mu.Unlock()
	})
	f.timers[sessionID] = t
}

// cancel stops the pending callback for sessionID, if any.
func (f *feedbackTimers) cancel(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.timers[sessionID]; ok {
		t.Stop()
		delete(f.timers, sessionID)
	}
}

// stopAll cancels every pending callback.
func (f *feedbackTimers) stopAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.timers {
		t.Stop()
		delete(f.timers, id)
	}
}

// pending reports how many callbacks are waiting.
func (f *feedbackTimers) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}
