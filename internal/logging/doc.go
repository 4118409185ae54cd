// Package logging provides structured zerolog logging for insightdeck.
//
// Loggers are carried on the context so every component logs with the trace ID
// of the command or view session that triggered it. Key features:
//   - Console (human readable) or JSON output, to stderr or a file
//   - Trace IDs (ULID) attached to every event logged with .Ctx(ctx)
//   - Component sub-loggers tagged with a "component" field
//   - Fallback to stderr when the configured log file cannot be opened
package logging
