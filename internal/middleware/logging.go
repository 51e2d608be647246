package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"

	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/pkg/api/apiconnect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages,
// and records the call duration in m (which may be nil).
func LoggingInterceptor(m *metrics.Metrics) connect.Interceptor {
	return &loggingInterceptor{metrics: m}
}

type loggingInterceptor struct {
	metrics *metrics.Metrics
}

func (l *loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		start := time.Now()
		resp, err := next(ctx, req)
		l.log(ctx, req.Spec().Procedure, "RPC", start, err)
		return resp, err
	}
}

func (l *loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (l *loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		procedure := conn.Spec().Procedure
		slog.Debug("Stream opened", "procedure", procedure, "user_id", GetUserID(ctx))

		err := next(ctx, conn)
		if errors.Is(err, context.Canceled) {
			// Client went away; not a failure
			err = nil
		}
		l.log(ctx, procedure, "Stream", start, err)
		return err
	}
}

func (l *loggingInterceptor) log(ctx context.Context, procedure, kind string, start time.Time, err error) {
	elapsed := time.Since(start)
	duration := elapsed.Milliseconds()
	userID := GetUserID(ctx) // empty if pre-auth

	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	l.metrics.ObserveRPC(procedure, code, elapsed)

	if err != nil {
		var connectErr *connect.Error
		if errors.As(err, &connectErr) {
			slog.Warn(kind+" error",
				"procedure", procedure,
				"code", connectErr.Code(),
				"error", connectErr.Message(),
				"user_id", userID,
				"duration_ms", duration,
			)
		} else {
			slog.Error(kind+" error",
				"procedure", procedure,
				"error", err,
				"user_id", userID,
				"duration_ms", duration,
			)
		}
		return
	}
	slog.Info(kind+" ok",
		"procedure", procedure,
		"user_id", userID,
		"duration_ms", duration,
	)
}

// RequestLogger returns a gin middleware that logs HTTP and WebSocket routes
// and records their duration under the route pattern.
func RequestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		// Connect procedures are observed by LoggingInterceptor
		if !apiconnect.IsProcedurePath(c.Request.URL.Path) {
			m.ObserveRPC(route, metrics.StatusLabel(status), elapsed)
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"remote_addr", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			slog.Warn("Request failed", append(attrs, "error", c.Errors.String())...)
			return
		}
		slog.Debug("Request completed", attrs...)
	}
}
