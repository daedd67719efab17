// Package errors provides structured error types shared by the API client,
// the archive writer and the bundle exporter.
//
// Every failure that crosses a package boundary carries an ErrorCode so that
// callers can decide how to react without inspecting messages. The dump
// collector, for example, treats NOT_FOUND and INVALID_REQUEST from the
// platform as "artifact not available" and every other code as fatal:
//
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//	    // skip the entry
//	}
//
// Wrapping keeps the cause reachable through the standard library:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "archive writer did not drain",
//	    ctx.Err(),
//	    map[string]any{"path": path},
//	)
package errors
