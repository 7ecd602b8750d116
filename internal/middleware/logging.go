package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type logContextKey string

const loggerKey = logContextKey("logger")

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Logging logs every outgoing API request and tags it with an X-Request-ID
// correlation id so the lines can be matched with the server's logs.
func Logging(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {

		start := time.Now()

		correlationID := r.Header.Get("X-Request-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		// RoundTrippers must not modify the caller's request
		r = r.Clone(r.Context())
		r.Header.Set("X-Request-ID", correlationID)

		requestLogger := LoggerFromContext(r.Context()).With(
			slog.String("correlation_id", correlationID),
			slog.String("http_method", r.Method),
			slog.String("http_path", r.URL.Path),
		)

		requestLogger.Debug("Outgoing request")

		resp, err := next.RoundTrip(r.WithContext(WithLogger(r.Context(), requestLogger)))
		if err != nil {
			requestLogger.Warn("Request Failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))

			return nil, err
		}

		requestLogger.Info("Request Completed", slog.Int("http_status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

		return resp, nil
	})
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}
