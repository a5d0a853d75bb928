package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// messageTTL controls how long chat items are retained. Expired rows are
// filtered on read and purged opportunistically on write.
const messageTTL = 90 * 24 * time.Hour

// ErrConversationNotFound is returned when a conversation id does not exist
// for the given teacher.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationKind distinguishes student-focused chats from general ones.
type ConversationKind string

const (
	KindStudent ConversationKind = "student"
	KindGeneral ConversationKind = "general"
)

// Conversation is the metadata row for one chat thread.
type Conversation struct {
	ID         string           `json:"id"`
	TeacherID  string           `json:"teacher_id"`
	ClassID    string           `json:"class_id,omitempty"`
	Title      string           `json:"title,omitempty"`
	Kind       ConversationKind `json:"kind"`
	StudentIDs []string         `json:"student_ids,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Message is one persisted chat turn.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	TeacherID      string    `json:"teacher_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationRepo persists chat threads keyed by (teacherID, sortKey).
// Sort keys follow the scheme "CONV#{id}" for metadata and
// "CHAT#{conversationID}#MSG#{messageID}" for individual messages, so a
// prefix query retrieves either the thread list or one thread's history.
type ConversationRepo interface {
	CreateConversation(ctx context.Context, conv Conversation) error
	Conversation(ctx context.Context, teacherID, conversationID string) (*Conversation, error)
	SetTitle(ctx context.Context, teacherID, conversationID, title string) error
	ListConversations(ctx context.Context, teacherID, classID string) ([]Conversation, error)
	DeleteConversation(ctx context.Context, teacherID, conversationID string) error

	AppendMessage(ctx context.Context, msg Message) (string, error)
	Messages(ctx context.Context, teacherID, conversationID string, newestFirst bool) ([]Message, error)
}

type conversationRepo struct {
	db *sql.DB
}

func convKey(conversationID string) string {
	return "CONV#" + conversationID
}

func msgKeyPrefix(conversationID string) string {
	return "CHAT#" + conversationID + "#MSG#"
}

func (r *conversationRepo) CreateConversation(ctx context.Context, conv Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	return r.putItem(ctx, conv.TeacherID, convKey(conv.ID), conv, conv.CreatedAt)
}

func (r *conversationRepo) Conversation(ctx context.Context, teacherID, conversationID string) (*Conversation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT payload FROM chat_items
		WHERE teacher_id = ? AND sort_key = ? AND expires_at > ?`,
		teacherID, convKey(conversationID), time.Now().UnixMilli())

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(payload), &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &conv, nil
}

func (r *conversationRepo) SetTitle(ctx context.Context, teacherID, conversationID, title string) error {
	conv, err := r.Conversation(ctx, teacherID, conversationID)
	if err != nil {
		return err
	}
	conv.Title = title
	return r.putItem(ctx, teacherID, convKey(conversationID), conv, conv.CreatedAt)
}

func (r *conversationRepo) ListConversations(ctx context.Context, teacherID, classID string) ([]Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM chat_items
		WHERE teacher_id = ? AND sort_key LIKE 'CONV#%' AND expires_at > ?
		ORDER BY created_at DESC`,
		teacherID, time.Now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		var conv Conversation
		if err := json.Unmarshal([]byte(payload), &conv); err != nil {
			return nil, fmt.Errorf("decode conversation: %w", err)
		}
		if classID != "" && conv.ClassID != classID {
			continue
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (r *conversationRepo) DeleteConversation(ctx context.Context, teacherID, conversationID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_items
		WHERE teacher_id = ? AND (sort_key = ? OR sort_key LIKE ?)`,
		teacherID, convKey(conversationID), msgKeyPrefix(conversationID)+"%")
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// AppendMessage persists one turn and returns the message id.
func (r *conversationRepo) AppendMessage(ctx context.Context, msg Message) (string, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	key := msgKeyPrefix(msg.ConversationID) + msg.ID
	if err := r.putItem(ctx, msg.TeacherID, key, msg, msg.CreatedAt); err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (r *conversationRepo) Messages(ctx context.Context, teacherID, conversationID string, newestFirst bool) ([]Message, error) {
	// rowid breaks ties between messages written in the same millisecond.
	order := "ASC, rowid ASC"
	if newestFirst {
		order = "DESC, rowid DESC"
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM chat_items
		WHERE teacher_id = ? AND sort_key LIKE ? AND expires_at > ?
		ORDER BY created_at `+order,
		teacherID, msgKeyPrefix(conversationID)+"%", time.Now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		var msg Message
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// putItem upserts one keyed item and sweeps expired rows for the teacher.
func (r *conversationRepo) putItem(ctx context.Context, teacherID, sortKey string, item any, createdAt time.Time) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode chat item: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO chat_items (teacher_id, sort_key, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (teacher_id, sort_key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at`,
		teacherID, sortKey, string(payload),
		createdAt.UnixMilli(), now.Add(messageTTL).UnixMilli())
	if err != nil {
		return fmt.Errorf("save chat item: %w", err)
	}

	// Best-effort sweep. SQLite has no TTL, so writes clean up lazily.
	_, _ = r.db.ExecContext(ctx,
		`DELETE FROM chat_items WHERE teacher_id = ? AND expires_at <= ?`,
		teacherID, now.UnixMilli())

	return nil
}
