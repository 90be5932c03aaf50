package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Chat methods
func (s *SQLiteStore) CreateChat(ctx context.Context, userID int64, title *string) (*Chat, error) {
	chatID := uuid.NewString()
	now := time.Now()
	_, err := s.db.ExecContext(ctx, "INSERT INTO chats (id, user_id, title, created_at) VALUES (?, ?, ?, ?)", chatID, userID, title, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	return &Chat{ID: chatID, UserID: userID, Title: title, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetChatByID(ctx context.Context, chatID string, userID int64) (*Chat, error) {
	var chat Chat
	var title sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT id, user_id, title, created_at FROM chats WHERE id = ? AND user_id = ?", chatID, userID).
		Scan(&chat.ID, &chat.UserID, &title, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if title.Valid {
		chat.Title = &title.String
	}
	return &chat, nil
}

func (s *SQLiteStore) GetChatsByUserID(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, user_id, title, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	chats := []Chat{}
	for rows.Next() {
		var chat Chat
		var title sql.NullString
		if err := rows.Scan(&chat.ID, &chat.UserID, &title, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		if title.Valid {
			chat.Title = &title.String
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (s *SQLiteStore) UpdateChatTitle(ctx context.Context, chatID string, userID int64, title string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE chats SET title = ? WHERE id = ? AND user_id = ?", title, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to execute chat title update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Message methods
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *Message) error {
	msg.ID = uuid.NewString()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	var suggestions sql.NullString
	if len(msg.Suggestions) > 0 {
		raw, err := json.Marshal(msg.Suggestions)
		if err != nil {
			return fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		suggestions = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO messages (id, chat_id, role, content, timestamp, language, liked, disliked, confidence, source, suggestions_json, image_ref)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.Role, msg.Content, msg.Timestamp,
		nullString(msg.Language), msg.Liked, msg.Disliked, msg.Confidence,
		nullString(msg.Source), suggestions, nullString(msg.ImageRef),
	)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

const messageColumns = "id, chat_id, role, content, timestamp, language, liked, disliked, confidence, source, suggestions_json, image_ref"

func (s *SQLiteStore) GetMessagesByChatID(ctx context.Context, chatID string, limit int, offset int) ([]Message, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE chat_id = ? ORDER BY timestamp ASC, rowid ASC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

// UpdateMessageFeedback sets the like/dislike pair on a message that belongs
// to one of the user's chats. Callers pass at most one true flag.
func (s *SQLiteStore) UpdateMessageFeedback(ctx context.Context, messageID string, userID int64, liked, disliked bool) (*Message, error) {
	if liked && disliked {
		return nil, fmt.Errorf("message cannot be both liked and disliked")
	}

	res, err := s.db.ExecContext(ctx, `
        UPDATE messages SET liked = ?, disliked = ?
        WHERE id = ? AND chat_id IN (SELECT id FROM chats WHERE user_id = ?)`,
		liked, disliked, messageID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute feedback update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM messages WHERE id = ?", messageID)
	return scanMessage(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*Message, error) {
	var (
		msg         Message
		language    sql.NullString
		confidence  sql.NullFloat64
		source      sql.NullString
		suggestions sql.NullString
		imageRef    sql.NullString
	)
	err := row.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &msg.Timestamp,
		&language, &msg.Liked, &msg.Disliked, &confidence, &source, &suggestions, &imageRef)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan message row: %w", err)
	}
	msg.Language = language.String
	msg.Source = source.String
	msg.ImageRef = imageRef.String
	if confidence.Valid {
		c := confidence.Float64
		msg.Confidence = &c
	}
	if suggestions.Valid && suggestions.String != "" {
		if err := json.Unmarshal([]byte(suggestions.String), &msg.Suggestions); err != nil {
			return nil, fmt.Errorf("failed to decode suggestions for message %s: %w", msg.ID, err)
		}
	}
	return &msg, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
