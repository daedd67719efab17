// Package logging provides structured logging utilities for wfctl.
//
// # Overview
//
// This package wraps the standard library slog package with wfctl defaults:
// JSON records on stderr, a level taken from --log-level or LOG_LEVEL, and
// module/version attributes on every record. Debug records carry their
// source location.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("wfctl", version, "info")
//	    slog.Info("dump started", "workflow", id)
//	}
//
// Log records never go to stdout so that command output stays pipeable:
//
//	wfctl runs dump --id 4Bi5 -o run.tar.gz --format json | jq .entries
package logging
