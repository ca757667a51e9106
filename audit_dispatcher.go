package custsession

import (
	"context"
	"io"

	"github.com/commercekit/custsession/internal/audit"
)

// AuditEvent is the record emitted for session lifecycle activity.
type AuditEvent = audit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpAuditSink drops every event.
type NoOpAuditSink = audit.NoOpSink

// ChannelAuditSink buffers events in a channel, mainly for tests.
type ChannelAuditSink = audit.ChannelSink

// NewChannelAuditSink creates a channel-backed sink with the given buffer.
func NewChannelAuditSink(buffer int) *ChannelAuditSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONAuditSink writes one JSON-encoded event per line to w.
func NewJSONAuditSink(w io.Writer) AuditSink {
	return audit.NewJSONWriterSink(w)
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *audit.Dispatcher {
	return audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

// emitAudit is safe on a nil dispatcher; auditing disabled means no-op.
func (m *Manager) emitAudit(ctx context.Context, event AuditEvent) {
	if m == nil {
		return
	}
	m.audit.Emit(ctx, event)
}
