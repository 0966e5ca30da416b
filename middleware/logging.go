package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/logger"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Logger receives one record per request (default: slog.Default())
	Logger *slog.Logger
	// SlowRequestThreshold upgrades the record to Warn (default: 5s)
	SlowRequestThreshold time.Duration
	// Component names the log source (default: "http")
	Component string
}

// Logging writes one structured record per request.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a logging middleware with custom configuration.
// Server errors are logged at Error, slow requests at Warn, the rest at Info.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				rec := &statusRecorder{ResponseWriter: w}
				err := resp(rec, r)

				status := rec.status
				if err != nil && status == 0 {
					status = errorStatus(err)
				}
				if status == 0 {
					status = http.StatusOK
				}

				elapsed := time.Since(start)
				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(status),
					logger.Latency(elapsed),
					logger.BytesOut(rec.bytes),
					logger.ClientIP(clientIPOf(ctx)),
				}
				if id, ok := GetRequestID(r.Context()); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				if err != nil {
					attrs = append(attrs, logger.Error(err))
				}

				level := slog.LevelInfo
				switch {
				case status >= 500:
					level = slog.LevelError
				case elapsed >= cfg.SlowRequestThreshold:
					level = slog.LevelWarn
				}

				cfg.Logger.LogAttrs(r.Context(), level, "request", attrs...)
				return err
			}
		}
	}
}

// errorStatus predicts the status the error handler will write for err.
func errorStatus(err error) int {
	var sc interface{ StatusCode() int }
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &sc):
		return sc.StatusCode()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += int64(n)
	return n, err
}

func (s *statusRecorder) Written() bool { return s.status != 0 }

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }
