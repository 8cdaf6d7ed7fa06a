// Package audit appends session lifecycle events to a Redis stream
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// DefaultMaxLen caps the stream length; trimming is approximate
const DefaultMaxLen = 100_000

// RedisAuditLogger implements domain.AuditLogger on a Redis stream
type RedisAuditLogger struct {
	client  redis.Cmdable
	stream  string
	maxLen  int64
	timeout time.Duration
}

// NewRedisAuditLogger creates an audit logger writing to stream
func NewRedisAuditLogger(client redis.Cmdable, stream string) domain.AuditLogger {
	return &RedisAuditLogger{
		client:  client,
		stream:  stream,
		maxLen:  DefaultMaxLen,
		timeout: 2 * time.Second,
	}
}

// LogEvent implements domain.AuditLogger
func (l *RedisAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return oops.Code("AUDIT_ENCODE_FAILED").With("event_type", event.EventType).Wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	err = l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: l.stream,
		MaxLen: l.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event_type": string(event.EventType),
			"user_id":    event.UserID,
			"success":    event.Success,
			"payload":    payload,
		},
	}).Err()
	if err != nil {
		return oops.Code("AUDIT_WRITE_FAILED").
			With("stream", l.stream).
			With("event_type", event.EventType).
			Wrap(err)
	}
	return nil
}

// LogAuditLogger implements domain.AuditLogger by writing events to the
// structured log. It is used when no Redis address is configured.
type LogAuditLogger struct {
	logger logging.Logger
}

// NewLogAuditLogger creates a log-backed audit logger
func NewLogAuditLogger(logger logging.Logger) domain.AuditLogger {
	return &LogAuditLogger{logger: logger.With("component", "audit")}
}

// LogEvent implements domain.AuditLogger
func (l *LogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	args := []any{
		"event_type", event.EventType,
		"user_id", event.UserID,
		"success", event.Success,
	}
	if event.Email != "" {
		args = append(args, "email", event.Email)
	}
	if event.SessionID != "" {
		args = append(args, "session_id", event.SessionID)
	}
	if event.ErrorMsg != "" {
		args = append(args, "error", event.ErrorMsg)
	}
	l.logger.Info(ctx, "audit event", args...)
	return nil
}
