// Package telemetry is the structured event side channel of the loyalty
// engines. Engines emit typed events; sinks (log, Kafka) subscribe through
// the Emitter interface. Emission is best-effort and must never fail a
// user-facing operation.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventPointsEarned       = "points_earned"
	EventPointsRedeemed     = "points_redeemed"
	EventTierChanged        = "tier_changed"
	EventChallengeStarted   = "challenge_started"
	EventChallengeProgress  = "challenge_progress"
	EventChallengeCompleted = "challenge_completed"
	EventClubJoined         = "club_joined"
	EventClubLeft           = "club_left"
	EventRideAttended       = "ride_attended"
	EventMilestoneReached   = "milestone_reached"
	EventActivitySynced     = "activity_synced"
)

type Event struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	UserID    string         `json:"user_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(kind, userID string, payload map[string]any) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// ZapEmitter writes events to the structured log.
type ZapEmitter struct {
	log *zap.Logger
}

func NewZapEmitter(log *zap.Logger) *ZapEmitter {
	return &ZapEmitter{log: log}
}

func (e *ZapEmitter) Emit(_ context.Context, event Event) {
	e.log.Info("loyalty event",
		zap.String("event_id", event.ID.String()),
		zap.String("kind", event.Kind),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload),
		zap.Time("timestamp", event.Timestamp),
	)
}

// Multi fans an event out to several sinks.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, event Event) {
	for _, e := range m {
		e.Emit(ctx, event)
	}
}

// Nop discards all events.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
