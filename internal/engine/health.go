package engine

import (
	"sync"
	"time"
)

// State is the connection state shown by the indicator.
type State int

const (
	Connected State = iota
	Disconnected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Status is a point-in-time copy of the health monitor.
type Status struct {
	State               State     `json:"-"`
	Connected           bool      `json:"connected"`
	LastSuccess         time.Time `json:"last_success,omitempty"`
	LastFailure         time.Time `json:"last_failure,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// Health tracks poll outcomes. It starts Connected; a success moves it to
// Connected and a failure to Disconnected. There is no backoff.
type Health struct {
	mu     sync.Mutex
	status Status
}

// NewHealth returns a monitor in the Connected state.
func NewHealth() *Health {
	return &Health{status: Status{State: Connected, Connected: true}}
}

// Record applies one poll outcome (err == nil is a success) and reports
// the resulting state and whether it changed.
func (h *Health) Record(err error, at time.Time) (State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.status.State
	if err == nil {
		h.status.State = Connected
		h.status.LastSuccess = at
		h.status.ConsecutiveFailures = 0
	} else {
		h.status.State = Disconnected
		h.status.LastFailure = at
		h.status.LastError = err.Error()
		h.status.ConsecutiveFailures++
	}
	h.status.Connected = h.status.State == Connected
	return h.status.State, h.status.State != prev
}

// State returns the current state.
func (h *Health) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status.State
}

// Status returns a copy of the monitor's bookkeeping.
func (h *Health) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}
