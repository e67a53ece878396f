// Package logging provides subsystem-tagged structured logging for agentplug.
//
// It is a thin facade over log/slog. Every message carries a subsystem name
// so output from the registry, scanner, server and hook dispatcher can be
// filtered independently.
//
// # Usage
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//
//	logging.Info("Registry", "Registered plugin %s from %s", id, root)
//	logging.Warn("Settings", "Skipping malformed record %s", path)
//	logging.Error("Server", err, "Handler %s failed", name)
//
// # Security Events
//
// Rejections that matter for auditing, such as asset paths escaping their
// plugin root, are logged with Security:
//
//	logging.Security("Server", logging.SecurityEvent{
//	    Action:   "asset_request",
//	    PluginID: "foo",
//	    Target:   "../../etc/passwd",
//	    Reason:   "path escapes plugin root",
//	})
//
// Until Init is called, Debug and Info are dropped and Warn/Error go to the
// default slog logger.
package logging
