package inmemory

import (
	"log/slog"
	"sync"

	"github.com/sharetube/syncroom/internal/repository/connection"
	"github.com/sharetube/syncroom/pkg/metrics"
)

type Conn interface {
	ID() string
	CloseWithCode(code int, reason string) error
}

type repo struct {
	conns  map[string]Conn
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		conns:  make(map[string]Conn),
		logger: logger,
	}
}

func (r *repo) Add(conn Conn) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", conn.ID())
	if _, ok := r.conns[conn.ID()]; ok {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.conns[conn.ID()] = conn
	metrics.Connections.Inc()

	return nil
}

func (r *repo) Remove(connID string) error {
	funcName := "connection.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", connID)
	if _, ok := r.conns[connID]; !ok {
		r.logger.Info(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}

	delete(r.conns, connID)
	metrics.Connections.Dec()

	return nil
}

func (r *repo) Get(connID string) (Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

// CloseAll sends a close frame with code to every tracked connection.
// Entries are removed by their owners once their read loops end.
func (r *repo) CloseAll(code int, reason string) int {
	r.mu.RLock()
	conns := make([]Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.CloseWithCode(code, reason); err != nil {
			r.logger.Debug("connection.inmemory.CloseAll", "conn_id", conn.ID(), "error", err)
		}
	}

	r.logger.Info("connection.inmemory.CloseAll", "closed", len(conns))
	return len(conns)
}
