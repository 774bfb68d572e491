package logging

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment fallbacks for Initialize. Without a level nothing is logged.
const (
	LogLevelEnvVar = "TPSCTL_LOG_LEVEL" // debug, info, warn or error
	LogFileEnvVar  = "TPSCTL_LOG_FILE"
)

var logger = zap.NewNop()

// Initialize replaces the global logger. Empty arguments fall back to
// TPSCTL_LOG_LEVEL and TPSCTL_LOG_FILE; with no level at all the logger stays
// silent, and with no file it writes to stderr.
func Initialize(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if path == "" {
		path = os.Getenv(LogFileEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: use debug, info, warn or error", level)
	}

	encoding := zap.NewDevelopmentEncoderConfig()
	encoding.EncodeTime = zapcore.ISO8601TimeEncoder
	encoding.EncodeCaller = zapcore.ShortCallerEncoder

	var sink zapcore.WriteSyncer
	if path == "" || path == "stderr" {
		sink = zapcore.Lock(os.Stderr)
		encoding.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		encoding.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoding), sink, lvl)
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

// SetLogger replaces the global logger; tests pass an observer core.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger.
func GetLogger() *zap.Logger {
	return logger
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// LogHTTPRequest records a request before it is sent or handled.
func LogHTTPRequest(requestID, method, url string) {
	Debug("HTTP request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url),
	)
}

// LogHTTPResponse records a finished request. Error statuses log at warn.
func LogHTTPResponse(requestID, method, url string, statusCode int, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Duration("elapsed", elapsed),
	}
	if statusCode >= 400 {
		Warn("HTTP response", fields...)
		return
	}
	Debug("HTTP response", fields...)
}

// LogTransition records a workflow status change of a configuration entry.
func LogTransition(kind, id, action, from, to string) {
	Info("Entry status changed",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.String("action", action),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogTLSHandshake records the negotiated parameters of a TLS connection.
func LogTLSHandshake(remoteAddr string, cs tls.ConnectionState) {
	Debug("TLS handshake completed",
		zap.String("remote_addr", remoteAddr),
		zap.String("tls_version", tls.VersionName(cs.Version)),
		zap.String("cipher_suite", tls.CipherSuiteName(cs.CipherSuite)),
		zap.String("server_name", cs.ServerName),
		zap.Int("peer_certificates", len(cs.PeerCertificates)),
	)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = logger.Sync()
}
