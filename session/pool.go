package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ink"
)

// Update is one frame's input for a single session.
type Update struct {
	Real      ink.StrokeInputBatch
	Predicted ink.StrokeInputBatch
	Now       ink.Duration32
}

// Pool is a registry of live sessions keyed by stroke id, safe for
// concurrent use. Multi-touch hosts begin a session per contact going down
// and end it when the contact lifts.
type Pool struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{sessions: make(map[uuid.UUID]*Session)}
}

// Begin registers a new session drawing with brush and returns its id.
func (p *Pool) Begin(brush ink.Brush, kind ink.ModelerKind, opts ...ink.ModelerOption) (uuid.UUID, *Session) {
	s := New(brush, kind, opts...)
	id := uuid.New()
	p.mu.Lock()
	p.sessions[id] = s
	p.mu.Unlock()
	ink.Logger().Debug("stroke started", "id", id, "modeler", kind.String())
	return id, s
}

// Get returns the session registered under id.
func (p *Pool) Get(id uuid.UUID) (*Session, bool) {
	p.mu.RLock()
	s, ok := p.sessions[id]
	p.mu.RUnlock()
	return s, ok
}

// End removes the session from the pool, reporting whether it was
// registered. The session itself stays usable by whoever still holds it.
func (p *Pool) End(id uuid.UUID) bool {
	p.mu.Lock()
	_, ok := p.sessions[id]
	delete(p.sessions, id)
	p.mu.Unlock()
	if ok {
		ink.Logger().Debug("stroke ended", "id", id)
	}
	return ok
}

// Len returns the number of live sessions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

// ExtendAll applies one frame of updates, each session on its own
// goroutine. Sessions are single-writer, which is sound here exactly
// because updates maps each id to one update. It fails before touching any
// session if an id is unknown, and abandons unstarted work when ctx is
// canceled.
func (p *Pool) ExtendAll(ctx context.Context, updates map[uuid.UUID]Update) error {
	type task struct {
		s *Session
		u Update
	}
	p.mu.RLock()
	tasks := make([]task, 0, len(updates))
	for id, u := range updates {
		s, ok := p.sessions[id]
		if !ok {
			p.mu.RUnlock()
			return fmt.Errorf("session: unknown stroke %v", id)
		}
		tasks = append(tasks, task{s, u})
	}
	p.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.s.Extend(t.u.Real, t.u.Predicted, t.u.Now)
			return nil
		})
	}
	return g.Wait()
}
