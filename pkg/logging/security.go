package logging

import (
	"log/slog"
)

// SecurityEvent describes a rejected, security-relevant request.
type SecurityEvent struct {
	// Action is what was attempted (e.g. "asset_request").
	Action string
	// PluginID is the plugin the request targeted, if known.
	PluginID string
	// Target is the offending input, such as the requested path.
	Target string
	// RemoteAddr is the client address, if any.
	RemoteAddr string
	// Reason is a short human-readable explanation.
	Reason string
}

// Security logs a security event at WARN level with a [SECURITY] prefix and
// security=true so log aggregation can filter on it.
func Security(subsystem string, event SecurityEvent) {
	attrs := []slog.Attr{
		slog.Bool("security", true),
		slog.String("action", event.Action),
	}
	if event.PluginID != "" {
		attrs = append(attrs, slog.String("plugin", event.PluginID))
	}
	if event.Target != "" {
		attrs = append(attrs, slog.String("target", event.Target))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}
	logInternal(LevelWarn, subsystem, nil, attrs, "[SECURITY] %s", event.Reason)
}
