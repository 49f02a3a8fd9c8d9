package goLogin

import (
	"io"

	internalaudit "github.com/MrEthical07/goLogin/internal/audit"
)

// Audit types shared with the internal dispatcher.
type (
	AuditEvent     = internalaudit.Event
	AuditSink      = internalaudit.Sink
	NoOpSink       = internalaudit.NoOpSink
	ChannelSink    = internalaudit.ChannelSink
	JSONWriterSink = internalaudit.JSONWriterSink
	MultiSink      = internalaudit.MultiSink
)

// NewChannelSink returns a sink that buffers events in a channel, mostly for tests.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing one JSON object per line to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
