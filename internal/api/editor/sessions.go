package editorapi

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-cms/internal/domain/composer"
	"storefront-cms/internal/domain/page"
)

type openSession struct {
	session  *composer.Session
	lastUsed time.Time
}

// Sessions tracks the open editing sessions of the admin API. An editor that
// navigates away never sends a close, so sessions left idle are expired by
// SweepIdle.
type Sessions struct {
	store page.Store
	opts  composer.Options
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*openSession
}

func NewSessions(store page.Store, opts composer.Options) *Sessions {
	return &Sessions{store: store, opts: opts, now: time.Now, sessions: make(map[string]*openSession)}
}

func (m *Sessions) Open(ctx context.Context, pageID string) (string, *composer.Session, error) {
	s, err := composer.Open(ctx, m.store, pageID, m.opts)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &openSession{session: s, lastUsed: m.now()}
	m.mu.Unlock()
	return id, s, nil
}

// Get returns the session and marks it as used.
func (m *Sessions) Get(id string) (*composer.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = m.now()
	return e.session, true
}

// Close disposes the session and forgets it.
func (m *Sessions) Close(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.session.Dispose()
	}
	return ok
}

// CloseAll disposes every session; used on shutdown.
func (m *Sessions) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*openSession)
	m.mu.Unlock()
	for _, e := range all {
		e.session.Dispose()
	}
}

func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SweepIdle closes every session not used for longer than idle and returns
// how many were closed. Disposing a session cancels its autosave job.
func (m *Sessions) SweepIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	expired := make(map[string]*composer.Session)
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			expired[id] = e.session
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for id, s := range expired {
		if s.State() == composer.StateDirty {
			m.logger().WithFields(logrus.Fields{"session_id": id, "page_id": s.PageID()}).
				Warn("expiring idle editor session with unsaved changes")
		}
		s.Dispose()
	}
	return len(expired)
}

// ExpireIdle runs SweepIdle on sched until the returned cancel func is
// called. The sweep runs every idle/2, and never more than once a second.
func (m *Sessions) ExpireIdle(sched composer.Scheduler, idle time.Duration) (func(), error) {
	every := idle / 2
	if every < time.Second {
		every = time.Second
	}
	return sched.Every(every, func() {
		if n := m.SweepIdle(idle); n > 0 {
			m.logger().WithField("closed", n).Info("expired idle editor sessions")
		}
	})
}

func (m *Sessions) logger() logrus.FieldLogger {
	if m.opts.Logger != nil {
		return m.opts.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
