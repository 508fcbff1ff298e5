package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Brownie44l1/http-pool/internal/request"
	"github.com/Brownie44l1/http-pool/internal/response"
)

var (
	ErrWrite = errors.New("write error")
	ErrPanic = errors.New("panic while serving connection")
)

// serveConn serves a single request on conn and always closes it.
// Failures are logged and counted; they never reach the worker loop.
func (s *Server) serveConn(worker int, conn net.Conn) {
	start := time.Now()
	ctx, span := s.tracer.Start(context.Background(), "serve connection",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.Int("worker.id", worker),
			attribute.String("network.peer.address", remoteAddr(conn)),
		),
	)
	defer span.End()

	s.metrics.ConnectionStarted(ctx)

	err := s.handleConn(ctx, conn)
	if cerr := conn.Close(); cerr != nil {
		s.Logger.Debug("close failed", Field{"worker", worker}, Field{"error", cerr})
	}

	// a peer that connects and leaves without a byte is not a failure
	failed := err != nil && !errors.Is(err, request.ErrEmptyRequest)
	s.metrics.ConnectionDone(ctx, failed)

	switch {
	case failed:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.Logger.Error("connection failed",
			Field{"worker", worker},
			Field{"remote", remoteAddr(conn)},
			Field{"error", err},
			Field{"duration_ms", time.Since(start).Milliseconds()},
		)
	case err != nil:
		s.Logger.Debug("connection closed without request",
			Field{"worker", worker},
			Field{"remote", remoteAddr(conn)},
		)
	}
}

// handleConn reads, routes and answers one request. Errors here are
// fatal to the connection only.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) (err error) {
	span := trace.SpanFromContext(ctx)

	buf := s.buffers.get()
	defer s.buffers.put(buf)

	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("panic serving connection",
				Field{"error", r},
				Field{"stack", string(debug.Stack())},
			)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	req, err := request.ReadRequest(conn, buf, s.cfg.MaxHeaders)
	if err != nil {
		return err
	}

	span.SetAttributes(
		attribute.String("http.request.method", req.MethodString()),
		attribute.String("url.path", req.PathString()),
	)
	if dropped := req.Headers.Dropped(); dropped > 0 {
		s.Logger.Debug("header lines dropped",
			Field{"path", req.PathString()},
			Field{"dropped", dropped},
		)
	}

	res := s.handler(req)

	w := response.NewWriter(conn)
	_, werr := w.Send(res)

	span.SetAttributes(
		attribute.Int("http.response.status_code", int(w.StatusCode())),
		attribute.Int("http.response.size", w.BytesWritten()),
	)
	if w.HadError() {
		return fmt.Errorf("%w: %w", ErrWrite, werr)
	}
	return nil
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
