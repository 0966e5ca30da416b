// Package logger builds slog loggers and provides attribute helpers shared
// by the rest of the module.
//
//	log := logger.New(
//		logger.WithProduction("armonaut"),
//		logger.WithContextValue("request_id", middleware.RequestIDKey{}),
//	)
//	log.InfoContext(ctx, "login refused",
//		logger.Component("auth"),
//		logger.RetryAfter(wait),
//	)
//
// Development loggers write text at debug level; production loggers write
// JSON at info level. NewFromConfig picks one from APP_ENV and LOG_LEVEL.
//
// Extractors added with WithContextValue or WithContextExtractors run for
// every record logged through a *Context method.
package logger
