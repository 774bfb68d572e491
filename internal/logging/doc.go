// Package logging provides structured logging for tpsctl.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless TPSCTL_LOG_LEVEL (or --log-level) is set, so the curated
// CLI and console output is never interleaved with log lines by default.
//
// # Log Levels
//
//   - Debug: HTTP requests and responses, TLS handshakes
//   - Info: workflow transitions, server start/stop
//   - Warn: failed requests, retries
//   - Error: fatal issues (startup failures, unreadable configuration)
//
// # Structured Logging
//
//	logging.Info("Entry saved",
//	    zap.String("kind", "profiles"),
//	    zap.String("id", "userKey"),
//	)
//
// # Specialized Logging
//
//	logging.LogHTTPRequest(requestID, "POST", url)
//	logging.LogHTTPResponse(requestID, "POST", url, 200, elapsed)
//	logging.LogTransition("profiles", "userKey", "enable", "Disabled", "Enabled")
//
// # Console Output
//
// The interactive console owns the terminal. Set TPSCTL_LOG_FILE (or
// --log-file) to send log output to a file while it runs:
//
//	TPSCTL_LOG_LEVEL=debug TPSCTL_LOG_FILE=/tmp/tpsctl.log tpsctl console
package logging
