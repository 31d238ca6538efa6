// Package sqlstore implements storage.Driver on database/sql. The SQLite and
// PostgreSQL drivers share it and differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/papercomputeco/rehearse/pkg/storage"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	// Name is used in error messages.
	Name string

	// Placeholder returns the bind parameter for the n-th argument, 1-based.
	Placeholder func(n int) string

	// Schema is executed in order when the store is opened. Statements must
	// be idempotent.
	Schema []string
}

// Store implements storage.Driver.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New applies the dialect's schema to db and returns a Store that owns it.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create %s schema: %w", dialect.Name, err)
		}
	}

	return &Store{db: db, dialect: dialect}, nil
}

// DB exposes the underlying handle for tests and maintenance.
func (s *Store) DB() *sql.DB {
	return s.db
}

// rebind rewrites "?" placeholders for the dialect.
func (s *Store) rebind(query string) string {
	if s.dialect.Placeholder == nil {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// PutSession implements storage.Driver.
func (s *Store) PutSession(ctx context.Context, st storage.SessionState) error {
	if st.SessionID == 0 {
		return errors.New("cannot store session without id")
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO sessions (session_id, title, status, current_question_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			current_question_id = excluded.current_question_id,
			updated_at = excluded.updated_at`),
		st.SessionID, st.Title, st.Status, nullInt(st.CurrentQuestionID), st.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("storing session %d: %w", st.SessionID, err)
	}

	return nil
}

// GetSession implements storage.Driver.
func (s *Store) GetSession(ctx context.Context, sessionID int64) (*storage.SessionState, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT session_id, title, status, current_question_id, updated_at
		FROM sessions WHERE session_id = ?`), sessionID)

	st, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{SessionID: sessionID}
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %d: %w", sessionID, err)
	}

	return st, nil
}

// ListSessions implements storage.Driver.
func (s *Store) ListSessions(ctx context.Context) ([]storage.SessionState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, title, status, current_question_id, updated_at
		FROM sessions ORDER BY updated_at DESC, session_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []storage.SessionState
	for rows.Next() {
		st, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, *st)
	}

	return out, rows.Err()
}

// DeleteSession implements storage.Driver.
func (s *Store) DeleteSession(ctx context.Context, sessionID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"answers", "questions", "sessions"} {
		if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM "+table+" WHERE session_id = ?"), sessionID); err != nil {
			return fmt.Errorf("deleting %s of session %d: %w", table, sessionID, err)
		}
	}

	return tx.Commit()
}

// AddQuestion implements storage.Driver.
func (s *Store) AddQuestion(ctx context.Context, q storage.QuestionRecord) (int64, error) {
	if q.StreamedAt.IsZero() {
		q.StreamedAt = time.Now()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO questions (session_id, question_id, text, sentinel, streamed_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`),
		q.SessionID, nullInt(q.QuestionID), q.Text, q.Sentinel, q.StreamedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storing question for session %d: %w", q.SessionID, err)
	}

	return id, nil
}

// Questions implements storage.Driver.
func (s *Store) Questions(ctx context.Context, sessionID int64) ([]storage.QuestionRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, session_id, question_id, text, sentinel, streamed_at
		FROM questions WHERE session_id = ? ORDER BY id`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var out []storage.QuestionRecord
	for rows.Next() {
		var (
			q   storage.QuestionRecord
			qid sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.SessionID, &qid, &q.Text, &q.Sentinel, &q.StreamedAt); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		q.QuestionID = fromNullInt(qid)
		out = append(out, q)
	}

	return out, rows.Err()
}

// AddAnswer implements storage.Driver.
func (s *Store) AddAnswer(ctx context.Context, a storage.AnswerRecord) (int64, error) {
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = time.Now()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO answers (session_id, question_id, answer, overall_score, feedback, answered_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		a.SessionID, a.QuestionID, a.Answer, a.OverallScore, a.Feedback, a.AnsweredAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storing answer for session %d: %w", a.SessionID, err)
	}

	return id, nil
}

// Answers implements storage.Driver.
func (s *Store) Answers(ctx context.Context, sessionID int64) ([]storage.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, session_id, question_id, answer, overall_score, feedback, answered_at
		FROM answers WHERE session_id = ? ORDER BY id`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var out []storage.AnswerRecord
	for rows.Next() {
		var a storage.AnswerRecord
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.Answer, &a.OverallScore, &a.Feedback, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// Close implements storage.Driver.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*storage.SessionState, error) {
	var (
		st  storage.SessionState
		qid sql.NullInt64
	)
	if err := row.Scan(&st.SessionID, &st.Title, &st.Status, &qid, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.CurrentQuestionID = fromNullInt(qid)
	return &st, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func fromNullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
