package events

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/white/session-tracker/config"
	"github.com/white/session-tracker/pkg/kafka"
	"github.com/white/session-tracker/pkg/uuid"
)

// AuthAction represents the type of auth lifecycle event being published
type AuthAction string

const (
	ActionUserRegistered AuthAction = "USER_REGISTERED"
	ActionUserLoggedIn   AuthAction = "USER_LOGGED_IN"
	ActionUserLoggedOut  AuthAction = "USER_LOGGED_OUT"
)

// AuthEvent is the payload published to Kafka for auth lifecycle events
type AuthEvent struct {
	EventID   string     `json:"event_id"`
	Timestamp int64      `json:"timestamp"`
	Action    AuthAction `json:"action"`
	UserID    string     `json:"user_id"`
	UserEmail string     `json:"user_email,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
}

// AuthPublisher publishes auth lifecycle events to Kafka. Publishing is
// best-effort: failures are logged and never surfaced to the caller.
type AuthPublisher struct {
	producer *kafka.Producer
	topics   config.KafkaTopics
	logger   zerolog.Logger
	enabled  bool
}

// NewAuthPublisher creates a new auth event publisher. A nil producer
// disables publishing entirely.
func NewAuthPublisher(producer *kafka.Producer, topics config.KafkaTopics, logger zerolog.Logger) *AuthPublisher {
	return &AuthPublisher{
		producer: producer,
		topics:   topics,
		logger:   logger.With().Str("component", "auth_events").Logger(),
		enabled:  producer != nil,
	}
}

// Publish emits an auth event for the given action.
func (p *AuthPublisher) Publish(action AuthAction, userID, email, sessionID string) {
	if !p.enabled {
		return
	}

	topic := p.topicFor(action)
	if topic == "" {
		return
	}

	event := AuthEvent{
		EventID:   uuid.MustNewUUID(),
		Timestamp: time.Now().Unix(),
		Action:    action,
		UserID:    userID,
		UserEmail: email,
		SessionID: sessionID,
	}

	if err := p.producer.PublishJSON(topic, event); err != nil {
		p.logger.Error().Err(err).
			Str("topic", topic).
			Str("action", string(action)).
			Msg("failed to publish auth event")
	}
}

func (p *AuthPublisher) topicFor(action AuthAction) string {
	switch action {
	case ActionUserRegistered:
		return p.topics.UserRegistered
	case ActionUserLoggedIn:
		return p.topics.UserLoggedIn
	case ActionUserLoggedOut:
		return p.topics.UserLoggedOut
	default:
		return ""
	}
}
