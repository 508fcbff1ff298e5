package server

import (
	"errors"

	"github.com/Brownie44l1/http-pool/internal/queue"
)

func (s *Server) startWorkers() {
	for i := 0; i < s.cfg.Workers; i++ {
		s.workers.Add(1)
		go s.worker(i)
	}
}

// worker serves queued connections until the queue reports closed.
// Nothing carries over from one connection to the next.
func (s *Server) worker(id int) {
	defer s.workers.Done()

	s.Logger.Debug("worker started", Field{"worker", id})

	for {
		conn, err := s.queue.Dequeue()
		if err != nil {
			if !errors.Is(err, queue.ErrClosed) {
				s.Logger.Error("dequeue failed", Field{"worker", id}, Field{"error", err})
			}
			break
		}

		s.serveConn(id, conn)
	}

	s.Logger.Debug("worker stopped", Field{"worker", id})
}
