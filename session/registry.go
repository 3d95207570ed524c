// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/workflow"
)

var ErrNotFound = errors.New("voting session not found")

// Session is a voting workflow owned by a single administrator.
type Session struct {
	ID        string
	Title     string
	Owner     string
	CreatedAt time.Time
	Engine    *workflow.Engine
}

// Registry holds the live engines, one per session, backed by the store.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store   *db.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRegistry(store *db.Store, m *metrics.Metrics, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

func (r *Registry) engineOptions(id string) []workflow.Option {
	opts := []workflow.Option{
		workflow.WithJournal(r.store.Journal(id)),
		workflow.WithLogger(r.logger.With("session_id", id)),
	}
	if r.metrics != nil {
		opts = append(opts, workflow.WithListener(r.metrics.Observe))
	}
	return opts
}

// Create starts a new session in VotersRegistration owned by owner.
func (r *Registry) Create(ctx context.Context, title, owner string) (*Session, error) {
	rec := db.SessionRecord{
		ID:        uuid.NewString(),
		Title:     title,
		Owner:     owner,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.InsertSession(ctx, rec); err != nil {
		return nil, err
	}

	s := &Session{
		ID:        rec.ID,
		Title:     rec.Title,
		Owner:     rec.Owner,
		CreatedAt: rec.CreatedAt,
		Engine:    workflow.New(owner, r.engineOptions(rec.ID)...),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.SessionsCreated.Inc()
		r.metrics.TrackSession(workflow.VotersRegistration)
	}
	r.logger.Info("voting session created", "session_id", s.ID, "owner", owner)
	return s, nil
}

// Get returns the live session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// List returns all live sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Restore loads every stored session and replays its journal. It returns
// the number of sessions restored.
func (r *Registry) Restore(ctx context.Context) (int, error) {
	records, err := r.store.ListSessions(ctx)
	if err != nil {
		return 0, err
	}

	restored := make(map[string]*Session, len(records))
	for _, rec := range records {
		entries, err := r.store.Entries(ctx, rec.ID)
		if err != nil {
			return 0, err
		}
		engine, err := workflow.Restore(rec.Owner, entries, r.engineOptions(rec.ID)...)
		if err != nil {
			return 0, fmt.Errorf("session %s: %w", rec.ID, err)
		}
		restored[rec.ID] = &Session{
			ID:        rec.ID,
			Title:     rec.Title,
			Owner:     rec.Owner,
			CreatedAt: rec.CreatedAt,
			Engine:    engine,
		}
	}

	r.mu.Lock()
	for id, s := range restored {
		r.sessions[id] = s
	}
	r.mu.Unlock()

	if r.metrics != nil {
		for _, s := range restored {
			r.metrics.TrackSession(s.Engine.Phase())
		}
	}
	r.logger.Info("voting sessions restored", "count", len(restored))
	return len(restored), nil
}

// Events returns persisted events of a session.
func (r *Registry) Events(ctx context.Context, id string, afterSeq int64, limit int) ([]db.EventRecord, error) {
	if _, err := r.Get(id); err != nil {
		return nil, err
	}
	return r.store.Events(ctx, id, afterSeq, limit)
}
