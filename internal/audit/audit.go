// Package audit emits admission decisions and upstream failures for
// operator-facing pipelines. Events are best-effort: a broken sink never
// blocks or fails an admission.
package audit

import (
	"context"
	"time"
)

// EventType classifies audit events.
type EventType string

const (
	// EventDecision records the final action taken for a connection.
	EventDecision EventType = "decision"
	// EventUpstreamError records an abandoned evaluation: the Steam API
	// failed at some stage and no verdict was produced.
	EventUpstreamError EventType = "upstream_error"
)

// Event captures one admission outcome. Keep it transport-agnostic so sinks
// can fan out.
type Event struct {
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	SteamID    string    `json:"steam_id"`
	PlayerName string    `json:"player_name,omitempty"`

	// Decision fields
	Action string `json:"action,omitempty"`
	Reason string `json:"reason,omitempty"`

	// Upstream error fields
	Stage      string `json:"stage,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// Publisher is a sink for admission events.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards all events. Used when no sink is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Memory buffers events in process, for tests.
type Memory struct {
	Events []Event
}

func (m *Memory) Publish(_ context.Context, event Event) {
	m.Events = append(m.Events, event)
}
