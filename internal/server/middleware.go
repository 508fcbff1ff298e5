package server

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/http-pool/internal/request"
	"github.com/Brownie44l1/http-pool/internal/response"
	"github.com/Brownie44l1/http-pool/internal/router"
)

// LoggingMiddleware logs all requests
func LoggingMiddleware(logger Logger) router.Middleware {
	return func(next router.Handler) router.Handler {
		return func(req *request.Request) response.Response {
			start := time.Now()

			res := next(req)

			logger.Debug("request handled",
				Field{"method", req.MethodString()},
				Field{"path", req.PathString()},
				Field{"status", int(res.Status)},
				Field{"duration_us", time.Since(start).Microseconds()},
			)
			return res
		}
	}
}

// RecoveryMiddleware turns a panicking handler into a 500
func RecoveryMiddleware(logger Logger) router.Middleware {
	return func(next router.Handler) router.Handler {
		return func(req *request.Request) (res response.Response) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						Field{"error", err},
						Field{"stack", string(debug.Stack())},
						Field{"path", req.PathString()},
					)

					res = response.Status(response.StatusInternalServerError)
				}
			}()

			return next(req)
		}
	}
}

// MetricsMiddleware records request metrics
func MetricsMiddleware(metrics *Metrics) router.Middleware {
	return func(next router.Handler) router.Handler {
		return func(req *request.Request) response.Response {
			start := time.Now()

			res := next(req)

			metrics.RecordRequest(context.Background(), res.Status, time.Since(start))
			return res
		}
	}
}
