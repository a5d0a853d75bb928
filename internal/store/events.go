package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMEvent is one recorded LLM request, successful or not. ID and
// CreatedAt are assigned on insert and populated on reads.
type LLMEvent struct {
	ID           int64
	CreatedAt    time.Time
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// LLMEventRepo records LLM request events for offline inspection.
type LLMEventRepo interface {
	AppendLLMEvent(ctx context.Context, ev LLMEvent) error

	// QueryLLMEvents returns the most recent events, newest first,
	// optionally filtered by purpose.
	QueryLLMEvents(ctx context.Context, purpose string, limit int) ([]LLMEvent, error)
}

type llmEventRepo struct {
	db *sql.DB
}

func (r *llmEventRepo) AppendLLMEvent(ctx context.Context, ev LLMEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_events (
			created_at, provider, model, purpose, latency_ms, success,
			input_tokens, output_tokens, request_body, response_body, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UnixMilli(), ev.Provider, ev.Model, ev.Purpose,
		ev.LatencyMs, ev.Success, ev.InputTokens, ev.OutputTokens,
		ev.RequestBody, ev.ResponseBody, ev.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save LLM event: %w", err)
	}
	return nil
}

func (r *llmEventRepo) QueryLLMEvents(ctx context.Context, purpose string, limit int) ([]LLMEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, created_at, provider, model, purpose, latency_ms, success,
			input_tokens, output_tokens, request_body, response_body, error_message
		FROM llm_events`
	args := []any{}
	if purpose != "" {
		query += ` WHERE purpose = ?`
		args = append(args, purpose)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		var ev LLMEvent
		var createdAt int64
		if err := rows.Scan(&ev.ID, &createdAt, &ev.Provider, &ev.Model, &ev.Purpose,
			&ev.LatencyMs, &ev.Success, &ev.InputTokens, &ev.OutputTokens,
			&ev.RequestBody, &ev.ResponseBody, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(createdAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}
