package chat

import (
	"context"
	"strings"

	"github.com/k12coteacher/coteacher/internal/extraction"
	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/store"
)

// maybeGenerateTitle assigns a title to an untitled conversation from the
// turn's message. Title generation is cosmetic; every failure here is
// logged and swallowed.
func (l *Loop) maybeGenerateTitle(ctx context.Context, teacherID, sessionID, body string) {
	conv, err := l.convs.Conversation(ctx, teacherID, sessionID)
	if err != nil {
		if err != store.ErrConversationNotFound {
			l.log.Warn("title check failed", "session", sessionID, "error", err)
		}
		return
	}
	if conv.Title != "" {
		return
	}

	prompt := extraction.Fill(titlePromptTemplate, map[string]string{"BODY": body})
	resp, err := l.provider.Generate(ctx, llm.Request{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens: 50,
	})
	if err != nil {
		l.log.Warn("title generation failed", "session", sessionID, "error", err)
		return
	}

	title := strings.Trim(strings.TrimSpace(string(resp.Content)), `"`)
	if title == "" {
		return
	}
	if err := l.convs.SetTitle(ctx, teacherID, sessionID, title); err != nil {
		l.log.Warn("title save failed", "session", sessionID, "error", err)
	}
}
