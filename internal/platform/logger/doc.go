// Package logger provides structured logging for the service.
//
// It builds log/slog JSON loggers at the configured level and carries
// request-scoped loggers through context.Context.
package logger
