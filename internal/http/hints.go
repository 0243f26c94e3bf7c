package http

import (
	"sync"
	"time"
)

// tapHinter counts rapid repeated filter toggles and produces a hint
// message once the threshold is reached inside the window. Each tap
// supersedes the previous reset timer; an expired window discards the
// count. This is a UI affordance only and holds no durable state.
type tapHinter struct {
	mu        sync.Mutex
	count     int
	timer     *time.Timer
	threshold int
	window    time.Duration
	hint      string
}

func newTapHinter(threshold int, window time.Duration, hint string) *tapHinter {
	return &tapHinter{
		threshold: threshold,
		window:    window,
		hint:      hint,
	}
}

// Tap registers one toggle and returns the hint when the user has toggled
// rapidly enough, empty otherwise.
func (h *tapHinter) Tap() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.count++
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.window, h.reset)

	if h.count >= h.threshold {
		h.count = 0
		return h.hint
	}
	return ""
}

func (h *tapHinter) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count = 0
}
