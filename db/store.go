// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/workflow"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is a row of voting_session.
type SessionRecord struct {
	ID        string
	Title     string
	Owner     string
	CreatedAt time.Time
}

// EventRecord is a persisted event as exposed by the event log.
type EventRecord struct {
	Seq        int64
	Operation  string
	Caller     string
	Name       string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// Store persists voting sessions and their journals.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertSession records a new voting session.
func (s *Store) InsertSession(ctx context.Context, rec SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voting_session (id, title, owner, created_at)
		VALUES ($1, $2, $3, $4)
	`, rec.ID, rec.Title, rec.Owner, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession loads one session row.
func (s *Store) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, owner, created_at
		FROM voting_session
		WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Title, &rec.Owner, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return SessionRecord{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("failed to query session: %w", err)
	}
	return rec, nil
}

// ListSessions returns all sessions, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, owner, created_at
		FROM voting_session
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Owner, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// AppendEntry writes one journal entry.
func (s *Store) AppendEntry(ctx context.Context, sessionID string, e workflow.Entry) error {
	payload, err := json.Marshal(e.Event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_event
			(session_id, seq, operation, caller, voter_key, description, proposal_id,
			 event_name, event_payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, sessionID, e.Seq, string(e.Op), e.Caller, e.Key, e.Description, e.ProposalID,
		e.Event.EventName(), string(payload), e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// Journal returns a workflow.Journal writing to sessionID's journal.
func (s *Store) Journal(sessionID string) workflow.Journal {
	return workflow.JournalFunc(func(e workflow.Entry) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.AppendEntry(ctx, sessionID, e)
	})
}

// Entries loads a session's journal in sequence order.
func (s *Store) Entries(ctx context.Context, sessionID string) ([]workflow.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, operation, caller, voter_key, description, proposal_id,
		       event_name, event_payload, occurred_at
		FROM session_event
		WHERE session_id = $1
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []workflow.Entry
	for rows.Next() {
		var (
			e         workflow.Entry
			op        string
			eventName string
			payload   string
		)
		if err := rows.Scan(&e.Seq, &op, &e.Caller, &e.Key, &e.Description, &e.ProposalID,
			&eventName, &payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Op = workflow.Operation(op)
		e.Event, err = workflow.DecodeEvent(eventName, []byte(payload))
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", e.Seq, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Events returns up to limit events with seq greater than afterSeq.
func (s *Store) Events(ctx context.Context, sessionID string, afterSeq int64, limit int) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, operation, caller, event_name, event_payload, occurred_at
		FROM session_event
		WHERE session_id = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3
	`, sessionID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	out := []EventRecord{}
	for rows.Next() {
		var (
			rec     EventRecord
			payload string
		)
		if err := rows.Scan(&rec.Seq, &rec.Operation, &rec.Caller, &rec.Name, &payload, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		rec.Payload = json.RawMessage(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}
