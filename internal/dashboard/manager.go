package dashboard

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/metrics"
)

// SnapshotCache shares snapshots across gateway instances.
type SnapshotCache interface {
	Load(ctx context.Context, key string) (domain.Snapshot, bool, error)
	Save(ctx context.Context, key string, snap domain.Snapshot) error
}

// UIStateStore persists UI state records.
type UIStateStore interface {
	Load(ctx context.Context, key string) (domain.UIState, bool, error)
	Save(ctx context.Context, key string, state domain.UIState) error
}

// SessionKey derives the session key of a bearer token. Raw tokens are never used as keys.
func SessionKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ManagerConfig bundles the collaborators of a Manager.
type ManagerConfig struct {
	API          API
	Engine       *metrics.Engine
	Dispatcher   events.Dispatcher
	Snapshots    SnapshotCache
	UIStates     UIStateStore
	Logger       *zap.Logger
	PollInterval time.Duration
	IdleTTL      time.Duration
	Now          func() time.Time
}

// Manager owns the live sessions, one per bearer token.
type Manager struct {
	cfg    ManagerConfig
	logger *zap.Logger
	ctx    context.Context

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds a manager. Session pollers run until ctx is cancelled or Close is called.
func NewManager(ctx context.Context, cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &Manager{
		cfg:      cfg,
		logger:   cfg.Logger.Named("sessions"),
		ctx:      ctx,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session of token, creating it on first use. Creation resolves the viewer
// through /auth/me, restores cached state and loads a first snapshot.
func (m *Manager) Session(ctx context.Context, token string) (*Session, error) {
	key := SessionKey(token)
	if s := m.lookup(key); s != nil {
		s.Touch()
		return s, nil
	}

	viewer, err := m.cfg.API.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	created := NewSession(SessionConfig{
		Key:          key,
		Token:        token,
		Viewer:       viewer,
		API:          m.cfg.API,
		Engine:       m.cfg.Engine,
		Dispatcher:   m.cfg.Dispatcher,
		Logger:       m.cfg.Logger,
		PollInterval: m.cfg.PollInterval,
		Now:          m.cfg.Now,
	})

	m.mu.Lock()
	if existing, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		existing.Touch()
		return existing, nil
	}
	m.sessions[key] = created
	m.mu.Unlock()

	warm := m.restore(ctx, created)
	if !warm {
		if err := created.Refresh(ctx); err != nil {
			m.logger.Warn("initial refresh incomplete", zap.String("viewer_id", viewer.ID), zap.Error(err))
		}
	}
	created.Start(m.ctx)
	m.logger.Info("session opened", zap.String("viewer_id", viewer.ID), zap.Bool("warm", warm))
	return created, nil
}

func (m *Manager) lookup(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[key]
}

// restore warms a new session from the caches and reports whether a fresh snapshot was found.
// A snapshot older than one poll interval is still installed but counts as a miss, so the
// caller reloads before serving it.
func (m *Manager) restore(ctx context.Context, s *Session) bool {
	if m.cfg.UIStates != nil {
		if state, ok, err := m.cfg.UIStates.Load(ctx, s.Key()); err != nil {
			m.logger.Warn("load ui state failed", zap.Error(err))
		} else if ok {
			s.RestoreUIState(state)
		}
	}
	if m.cfg.Snapshots == nil {
		return false
	}
	snap, ok, err := m.cfg.Snapshots.Load(ctx, s.Key())
	if err != nil {
		m.logger.Warn("load snapshot failed", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	s.Restore(snap)
	if snap.FetchedAt.IsZero() || m.cfg.Now().Sub(snap.FetchedAt) > m.maxSnapshotAge() {
		m.logger.Debug("cached snapshot is stale", zap.Time("fetched_at", snap.FetchedAt))
		return false
	}
	return true
}

func (m *Manager) maxSnapshotAge() time.Duration {
	if m.cfg.PollInterval > 0 {
		return m.cfg.PollInterval
	}
	return 30 * time.Second
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict stops and removes sessions idle for longer than the TTL.
func (m *Manager) Evict() int {
	cutoff := m.cfg.Now().Add(-m.cfg.IdleTTL)
	var stale []*Session
	m.mu.Lock()
	for key, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Stop()
		m.logger.Info("session evicted", zap.String("viewer_id", s.Viewer().ID))
	}
	return len(stale)
}

// RunEviction evicts idle sessions every interval until ctx is done.
func (m *Manager) RunEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Evict()
		}
	}
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
