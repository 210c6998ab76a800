// Package logger builds *slog.Logger values for the queue packages and the
// demo binary, and keeps attribute keys consistent between them.
//
// Every logger returned by New carries a handler that copies attributes
// stored in the context with ContextWithAttrs onto each record. Code that
// runs on behalf of a task can therefore log with the task's context and get
// its identifiers for free:
//
//	ctx = logger.ContextWithAttrs(ctx, logger.TaskID(id))
//	log.InfoContext(ctx, "calling upstream")
//
// NewContextHandler applies the same behaviour to a handler built elsewhere.
// NewFromConfig reads its settings from LOG_LEVEL, LOG_FORMAT and LOG_SERVICE
// through the config package.
package logger
