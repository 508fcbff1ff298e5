package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Brownie44l1/http-pool/internal/queue"
	"github.com/Brownie44l1/http-pool/internal/router"
)

const instrumentationName = "github.com/Brownie44l1/http-pool/internal/server"

// accept retry delays after a failed Accept (EMFILE, ECONNABORTED, ...)
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// ErrServerClosed is returned by Serve and ListenAndServe after Shutdown
var ErrServerClosed = errors.New("server closed")

// Server accepts connections, queues them, and serves one request per
// connection on a fixed pool of workers.
type Server struct {
	Logger Logger

	cfg     Config
	handler router.Handler
	queue   *queue.Queue[net.Conn]
	buffers *bufferPool
	metrics *Metrics
	tracer  trace.Tracer

	mu        sync.Mutex
	listeners []net.Listener
	closed    atomic.Bool

	acceptors    sync.WaitGroup
	workers      sync.WaitGroup
	shutdownOnce sync.Once
	closing      chan struct{} // closed when Shutdown starts
	done         chan struct{} // closed once every worker has exited
}

type options struct {
	logger      Logger
	meter       metric.Meter
	tracer      trace.Tracer
	handler     router.Handler
	middlewares []router.Middleware
}

// Option configures a Server
type Option func(*options)

// WithLogger sets the logger (DefaultLogger otherwise)
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMeter sets the meter metrics are recorded on (global provider otherwise)
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// WithTracer sets the tracer used for per-connection spans
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithHandler replaces the built-in router
func WithHandler(h router.Handler) Option {
	return func(o *options) { o.handler = h }
}

// WithMiddleware adds middlewares inside the default logging/metrics/recovery chain
func WithMiddleware(mws ...router.Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, mws...) }
}

// New creates a server and starts its worker pool. Workers wait on the
// queue until Serve feeds it or Shutdown closes it.
func New(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NewDefaultLogger()
	}
	if o.meter == nil {
		o.meter = otel.Meter(instrumentationName)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(instrumentationName)
	}
	if o.handler == nil {
		o.handler = (&router.Router{StrictMethods: cfg.StrictMethods}).Handler()
	}

	s := &Server{
		Logger:  o.logger,
		cfg:     cfg,
		queue:   queue.New[net.Conn](),
		buffers: newBufferPool(cfg.ReadBufferSize),
		tracer:  o.tracer,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}

	metrics, err := NewMetrics(o.meter, s.queue.Len)
	if err != nil {
		return nil, err
	}
	s.metrics = metrics

	// recovery sits innermost so a recovered 500 is still logged and counted
	mws := []router.Middleware{
		LoggingMiddleware(s.Logger),
		MetricsMiddleware(s.metrics),
		RecoveryMiddleware(s.Logger),
	}
	s.handler = router.Chain(o.handler, append(mws, o.middlewares...)...)

	s.startWorkers()
	return s, nil
}

// ListenAndServe listens on cfg.Addr and calls Serve
func (s *Server) ListenAndServe() error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln and enqueues each one for the worker
// pool. It blocks until ln fails or Shutdown is called, and always closes ln.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listeners = append(s.listeners, ln)
	s.acceptors.Add(1)
	s.mu.Unlock()

	defer s.acceptors.Done()
	defer ln.Close()

	s.Logger.Info("accepting connections",
		Field{"addr", ln.Addr().String()},
		Field{"workers", s.cfg.Workers},
	)

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay = nextAcceptDelay(delay)
			s.Logger.Error("accept failed", Field{"error", err}, Field{"retry_in", delay})

			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-s.closing:
				t.Stop()
				return ErrServerClosed
			}
			continue
		}
		delay = 0

		s.metrics.ConnectionAccepted(context.Background())
		s.queue.Enqueue(conn)
	}
}

// nextAcceptDelay doubles d, starting at minAcceptDelay and capped at maxAcceptDelay
func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	d *= 2
	if d > maxAcceptDelay {
		d = maxAcceptDelay
	}
	return d
}

// Shutdown stops accepting, lets the workers drain the queue, and waits
// for them to exit or for ctx to end. Connections already being served
// are not interrupted. If ctx ends first, connections still waiting in
// the queue are closed unserved and ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	var closeErr error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		close(s.closing)
		for _, ln := range s.listeners {
			if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && closeErr == nil {
				closeErr = err
			}
		}
		s.mu.Unlock()

		go func() {
			// no acceptor can enqueue once this returns
			s.acceptors.Wait()
			s.queue.Shutdown()
			s.workers.Wait()
			close(s.done)
		}()
	})

	var err error
	select {
	case <-s.done:
		err = closeErr
	case <-ctx.Done():
		err = ctx.Err()
	}

	s.closeQueued()
	return err
}

// closeQueued closes connections no worker has picked up
func (s *Server) closeQueued() {
	for _, conn := range s.queue.Destroy() {
		conn.Close()
		s.Logger.Debug("queued connection dropped", Field{"remote", remoteAddr(conn)})
	}
}

// Stats returns a snapshot of the server metrics
func (s *Server) Stats() MetricsSnapshot {
	snap := s.metrics.Snapshot()
	snap.QueueDepth = s.queue.Len()
	return snap
}
