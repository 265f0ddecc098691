package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tenanthub/internal/models"
)

// CreateThread inserts a thread together with its participants in one
// transaction.
func (db *DB) CreateThread(ctx context.Context, participants []int64) (*models.Thread, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `INSERT INTO threads (created_at) VALUES (?)`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, userID := range participants {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO thread_participants (thread_id, user_id) VALUES (?, ?)`,
			id, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to add participant %d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit thread: %w", err)
	}

	return &models.Thread{ID: id, Participants: participants, CreatedAt: now}, nil
}

func (db *DB) GetThread(ctx context.Context, id int64) (*models.Thread, error) {
	var t models.Thread
	err := db.QueryRowContext(ctx,
		`SELECT id, created_at FROM threads WHERE id = ?`, id).Scan(&t.ID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT user_id FROM thread_participants WHERE thread_id = ? ORDER BY user_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		t.Participants = append(t.Participants, userID)
	}
	return &t, rows.Err()
}

func (db *DB) AddParticipant(ctx context.Context, threadID, userID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO thread_participants (thread_id, user_id) VALUES (?, ?)`,
		threadID, userID)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (db *DB) RemoveParticipant(ctx context.Context, threadID, userID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM thread_participants WHERE thread_id = ? AND user_id = ?`,
		threadID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (db *DB) HasParticipant(ctx context.Context, threadID, userID int64) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM thread_participants WHERE thread_id = ? AND user_id = ?`,
		threadID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return n > 0, nil
}

func (db *DB) GetThreadsForUser(ctx context.Context, userID int64) ([]*models.Thread, error) {
	query := `SELECT t.id, t.created_at FROM threads t
              JOIN thread_participants tp ON tp.thread_id = t.id
              WHERE tp.user_id = ? ORDER BY t.created_at DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer rows.Close()

	var threads []*models.Thread
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(&t.ID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}

func (db *DB) CreateMessage(ctx context.Context, msg *models.Message) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO messages (thread_id, sender_id, content, sent_at, is_read, is_deleted)
         VALUES (?, ?, ?, ?, 0, 0)`,
		msg.ThreadID, msg.SenderID, msg.Content, now)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	msg.ID = id
	msg.SentAt = now
	msg.IsRead = false
	msg.IsDeleted = false
	return nil
}

// GetThreadMessages returns messages sent_at ascending; soft-deleted messages
// are excluded by default.
func (db *DB) GetThreadMessages(ctx context.Context, threadID int64) ([]*models.Message, error) {
	query := `SELECT id, thread_id, sender_id, content, sent_at, is_read, is_deleted
              FROM messages WHERE thread_id = ? AND is_deleted = 0 ORDER BY sent_at ASC, id ASC`
	return db.queryMessages(ctx, query, threadID)
}

func (db *DB) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	query := `SELECT id, thread_id, sender_id, content, sent_at, is_read, is_deleted
              FROM messages WHERE id = ?`
	var m models.Message
	err := db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.SentAt, &m.IsRead, &m.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

// LastMessage returns the newest non-deleted message of the thread, or
// ErrNotFound for an empty thread.
func (db *DB) LastMessage(ctx context.Context, threadID int64) (*models.Message, error) {
	query := `SELECT id, thread_id, sender_id, content, sent_at, is_read, is_deleted
              FROM messages WHERE thread_id = ? AND is_deleted = 0
              ORDER BY sent_at DESC, id DESC LIMIT 1`
	var m models.Message
	err := db.QueryRowContext(ctx, query, threadID).Scan(
		&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.SentAt, &m.IsRead, &m.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last message: %w", err)
	}
	return &m, nil
}

func (db *DB) SetMessageRead(ctx context.Context, id int64, read bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE messages SET is_read = ? WHERE id = ?`, read, id)
	if err != nil {
		return fmt.Errorf("failed to update message read flag: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) SetMessageDeleted(ctx context.Context, id int64, deleted bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE messages SET is_deleted = ? WHERE id = ?`, deleted, id)
	if err != nil {
		return fmt.Errorf("failed to update message deleted flag: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// UnreadCount counts unread messages in the thread sent by other users.
func (db *DB) UnreadCount(ctx context.Context, threadID, userID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages
         WHERE thread_id = ? AND is_read = 0 AND is_deleted = 0 AND sender_id != ?`,
		threadID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}

func (db *DB) queryMessages(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.SentAt, &m.IsRead, &m.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
