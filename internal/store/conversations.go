package store

import (
	"database/sql"
	"fmt"
)

// Conversation is one check-in session. Eligibility for resumption is fixed
// at creation time; messages only ever get appended.
type Conversation struct {
	ID        string
	UserID    string
	CreatedAt int64
}

// Message is one turn in a conversation.
type Message struct {
	ID             int64
	ConversationID string
	Role           string
	Content        string
	CreatedAt      int64
}

// InsertConversation creates a new conversation.
func (db *DB) InsertConversation(id, userID string, createdAt int64) error {
	_, err := db.Exec(`
		INSERT INTO conversations (id, user_id, created_at)
		VALUES (?, ?, ?)
	`, id, userID, createdAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// LatestConversation returns the user's most recently created conversation,
// or nil if they have none.
func (db *DB) LatestConversation(userID string) (*Conversation, error) {
	var c Conversation
	err := db.QueryRow(`
		SELECT id, user_id, created_at FROM conversations
		WHERE user_id = ? ORDER BY created_at DESC LIMIT 1
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest conversation: %w", err)
	}
	return &c, nil
}

// GetConversation returns a conversation by id, scoped to the owning user.
// Returns nil (not an error) when no such conversation exists for the user.
func (db *DB) GetConversation(id, userID string) (*Conversation, error) {
	var c Conversation
	err := db.QueryRow(`
		SELECT id, user_id, created_at FROM conversations
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// AppendMessage adds one turn to a conversation.
func (db *DB) AppendMessage(conversationID, role, content string, createdAt int64) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, conversationID, role, content, createdAt)
	if err != nil {
		return 0, fmt.Errorf("append message: %w", err)
	}
	id, _ := result.LastInsertId()
	return id, nil
}

// RecentMessages returns the last `limit` messages of a conversation in
// chronological order.
func (db *DB) RecentMessages(conversationID string, limit int) ([]Message, error) {
	rows, err := db.Query(`
		SELECT id, conversation_id, role, content, created_at FROM (
			SELECT id, conversation_id, role, content, created_at FROM messages
			WHERE conversation_id = ? ORDER BY created_at DESC, id DESC LIMIT ?
		) ORDER BY created_at ASC, id ASC
	`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// LatestUserMessage returns the most recent user-authored message across all
// of a user's conversations, or nil if they have never written one.
func (db *DB) LatestUserMessage(userID string) (*Message, error) {
	var m Message
	err := db.QueryRow(`
		SELECT m.id, m.conversation_id, m.role, m.content, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.user_id = ? AND m.role = 'user'
		ORDER BY m.created_at DESC, m.id DESC LIMIT 1
	`, userID).Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest user message: %w", err)
	}
	return &m, nil
}
