// Package logging provides structured logging for chatcfg.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the tool. Logging is silent by default so the
// interactive wizard and CLI output stay clean; set CHATCFG_LOG_LEVEL to
// enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (validation cycles, stale result drops)
//   - Info: Normal operations (resolved validations, registry writes)
//   - Warn: Non-fatal issues (discovery failures, retries)
//   - Error: Fatal issues (startup failures, corrupt registry)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Validation resolved",
//	    zap.String("url", "https://example.chat.platrum.ru"),
//	    zap.String("status", "ok"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
