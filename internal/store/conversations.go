package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/f3rmion/kanjicard/internal/card"
)

// UpsertConversation stores a conversation and replaces its lines.
func (s *Store) UpsertConversation(ctx context.Context, c *card.Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return upsertConversation(ctx, tx, c)
	})
}

func upsertConversation(ctx context.Context, db execer, c *card.Conversation) error {
	if _, err := db.ExecContext(ctx, `
		INSERT INTO conversations (id, title) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title
	`, c.ID, c.Title); err != nil {
		return fmt.Errorf("upserting conversation %d: %w", c.ID, err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM conversation_lines WHERE conversation_id = ?`, c.ID); err != nil {
		return fmt.Errorf("clearing conversation lines: %w", err)
	}

	for i, l := range c.Lines {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO conversation_lines (conversation_id, seq, is_user_line, text, romaji, translation)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, i, l.IsUserLine, l.Text, l.Romaji, l.Translation); err != nil {
			return fmt.Errorf("inserting conversation line %d: %w", i, err)
		}
	}
	return nil
}

// ListConversations returns all conversations ordered by id, each with its
// lines in order.
func (s *Store) ListConversations(ctx context.Context) ([]*card.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, l.seq, l.is_user_line, l.text, l.romaji, l.translation
		FROM conversations c LEFT JOIN conversation_lines l ON l.conversation_id = c.id
		ORDER BY c.id, l.seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var (
		out  []*card.Conversation
		last *card.Conversation
	)
	for rows.Next() {
		var (
			id          int64
			title       string
			seq         sql.NullInt64
			isUser      sql.NullBool
			text        sql.NullString
			romaji      sql.NullString
			translation sql.NullString
		)
		if err := rows.Scan(&id, &title, &seq, &isUser, &text, &romaji, &translation); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if last == nil || last.ID != id {
			last = &card.Conversation{ID: id, Title: title}
			out = append(out, last)
		}
		if seq.Valid {
			last.Lines = append(last.Lines, card.ConversationLine{
				IsUserLine:  isUser.Bool,
				Text:        text.String,
				Romaji:      romaji.String,
				Translation: translation.String,
			})
		}
	}
	return out, rows.Err()
}
