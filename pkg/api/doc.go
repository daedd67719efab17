// Package api implements the HTTP client for the workflow platform REST API.
//
// # Overview
//
// The client exposes the read-only describe/list/download operations the
// dump exporter needs. Every call takes a context, an optional Workspace that
// is passed through unchanged as the workspaceId query parameter, and returns
// typed values decoded from the platform's JSON envelopes.
//
// # Errors
//
// Non-2xx responses become *errors.StructuredError values whose code is
// derived from the HTTP status:
//
//	404 -> NOT_FOUND
//	400 -> INVALID_REQUEST
//	401, 403 -> UNAUTHORIZED
//	429 -> RATE_LIMIT_EXCEEDED
//	503 -> SERVICE_UNAVAILABLE
//	other -> INTERNAL
//
// Transport failures (DNS, TLS, resets) are reported as INTERNAL with the
// cause attached; a canceled context is reported as CANCELED.
//
// # Downloads
//
// Log downloads are streamed to a temporary file whose path is returned to
// the caller, who owns it from then on. Nothing is retried.
//
// # Usage
//
//	c, err := api.NewClient("https://api.cloud.seqera.io",
//	    api.WithAccessToken(token),
//	    api.WithRateLimit(10, 5),
//	)
//	wf, err := c.DescribeWorkflow(ctx, "4Bi5xBK6E2Nbhj", api.Workspace{WorkspaceID: 1234})
package api
