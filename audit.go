package authrank

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Audit event types emitted by the engine and the gate.
const (
	// AuditTokenPairIssued is emitted when a fresh credential pair is minted.
	AuditTokenPairIssued = "token.pair_issued"
	// AuditTokenRefreshed is emitted when a rotation succeeds.
	AuditTokenRefreshed = "token.refreshed"
	// AuditTokenRefreshRejected is emitted when a rotation is rejected.
	AuditTokenRefreshRejected = "token.refresh_rejected"
	// AuditTokenRevoked is emitted on sign-out / full revocation.
	AuditTokenRevoked = "token.revoked"
	// AuditGateDenied is emitted when the auth gate rejects a request.
	AuditGateDenied = "gate.denied"
	// AuditCacheStoreError is emitted when a cache-aside store call fails
	// and the operation degrades to direct invocation.
	AuditCacheStoreError = "cache.store_error"
	// AuditRankFallback is emitted when a rank query degrades to the
	// authoritative count-based computation.
	AuditRankFallback = "rank.fallback"
	// AuditRankIndexWriteFailed is emitted when the ordered-index write of
	// a score update fails after the authoritative write succeeded.
	AuditRankIndexWriteFailed = "rank.index_write_failed"
)

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	SubjectID string            `json:"subject_id,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit delivers the event to the channel, giving up when ctx is canceled.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side of the sink.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events, one per
// line, to an [io.Writer].
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit writes the event as a single JSON line.
func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
