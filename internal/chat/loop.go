package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/k12coteacher/coteacher/internal/extraction"
	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
	"github.com/k12coteacher/coteacher/internal/profile"
	"github.com/k12coteacher/coteacher/internal/store"
)

const (
	editProfileToolName = "editStudentProfile"

	chatMaxTokens   = 1024
	chatTemperature = 0.3
	chatTopP        = 0.9
)

// editProfileTool is offered to the model in student chats only.
var editProfileTool = llm.Tool{
	Name:        editProfileToolName,
	Description: "Update a student's profile with a teacher's observation or comment about the given student.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"teacherComment": map[string]any{
				"type":        "string",
				"description": "The observation or note about student to be added",
			},
		},
		"required": []string{"teacherComment"},
	},
}

// Loop runs conversation turns: persist the inbound message, stream the
// model's reply to a sink, execute the profile-mutation tool when the model
// requests it, and persist exactly one assistant message per turn.
type Loop struct {
	provider llm.Provider
	convs    store.ConversationRepo
	profiles ProfileService
	format   profile.FormatConfig
	log      *logger.Logger

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// NewLoop wires a conversation loop. The provider must support streaming.
func NewLoop(p llm.Provider, convs store.ConversationRepo, profiles ProfileService, format profile.FormatConfig, log *logger.Logger) *Loop {
	if log == nil {
		log = logger.Nop()
	}
	return &Loop{
		provider: p,
		convs:    convs,
		profiles: profiles,
		format:   format,
		log:      log,
		sessions: make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session. History
// is read-then-appended with no store-level concurrency check, so turns in
// the same session must not interleave.
func (l *Loop) sessionLock(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.sessions[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.sessions[sessionID] = m
	}
	return m
}

// Turn processes one inbound message end to end. Text deltas stream to the
// sink as they arrive; the returned result carries the final reply.
func (l *Loop) Turn(ctx context.Context, in TurnInput, sink Sink) (*TurnResult, error) {
	if strings.TrimSpace(in.Body) == "" || in.TeacherID == "" {
		return nil, errors.New("missing body or teacherId")
	}
	streamer, ok := llm.AsStreamer(l.provider)
	if !ok {
		return nil, &llm.ErrStreamingUnsupported{Provider: l.provider.ModelID()}
	}

	kind := store.KindGeneral
	if len(in.StudentIDs) == 1 {
		kind = store.KindStudent
	}

	sessionID := in.SessionID
	isNew := sessionID == ""
	if isNew {
		sessionID = uuid.NewString()
	}

	lock := l.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if isNew {
		err := l.convs.CreateConversation(ctx, store.Conversation{
			ID:         sessionID,
			TeacherID:  in.TeacherID,
			ClassID:    in.ClassID,
			Kind:       kind,
			StudentIDs: in.StudentIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
	}

	// The user message is persisted before the model is invoked so history
	// stays intact even if the model call fails.
	if _, err := l.convs.AppendMessage(ctx, store.Message{
		ConversationID: sessionID,
		TeacherID:      in.TeacherID,
		Role:           string(llm.RoleUser),
		Content:        in.Body,
	}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	msgs := l.loadHistory(ctx, in, sessionID)
	system, tools := l.systemPrompt(ctx, kind, in)

	ctx = llm.WithPurpose(ctx, "chat")

	req := llm.Request{
		System:      system,
		Messages:    msgs,
		Tools:       tools,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		TopP:        chatTopP,
	}

	var (
		text       strings.Builder
		toolInput  strings.Builder
		toolName   string
		stopReason string
	)
	_, err := streamer.GenerateStream(ctx, req, func(ev llm.StreamEvent) {
		switch ev.Type {
		case llm.EventTextDelta:
			text.WriteString(ev.Text)
			if err := sink.Send(ctx, ev.Text); err != nil {
				l.log.Warn("sink send failed", "error", err)
			}
		case llm.EventToolUseStart:
			toolName = ev.ToolName
		case llm.EventToolUseDelta:
			toolInput.WriteString(ev.PartialJSON)
		case llm.EventMessageStop:
			stopReason = ev.StopReason
		}
	})
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	assistantText := text.String()
	finalText := assistantText
	toolExecuted := false

	if stopReason == llm.StopToolUse && toolName == editProfileToolName && kind == store.KindStudent {
		result := l.executeEditProfile(ctx, in, toolInput.String())
		toolExecuted = true

		// The follow-up call runs whether or not the tool call succeeded:
		// the model turns the result, error included, into a natural
		// answer for the teacher.
		followup := append(append([]llm.Message{}, msgs...),
			llm.Message{Role: llm.RoleAssistant, Content: assistantText},
			llm.Message{Role: llm.RoleUser, Content: result},
		)
		var text2 strings.Builder
		_, err := streamer.GenerateStream(ctx, llm.Request{
			System:      system,
			Messages:    followup,
			MaxTokens:   chatMaxTokens,
			Temperature: chatTemperature,
			TopP:        chatTopP,
		}, func(ev llm.StreamEvent) {
			if ev.Type != llm.EventTextDelta {
				return
			}
			text2.WriteString(ev.Text)
			if err := sink.Send(ctx, ev.Text); err != nil {
				l.log.Warn("sink send failed", "error", err)
			}
		})
		if err != nil {
			l.log.Warn("tool follow-up call failed", "error", err)
		} else {
			finalText = text2.String()
		}
	}

	// Exactly one assistant message per user turn, after any follow-up.
	if _, err := l.convs.AppendMessage(ctx, store.Message{
		ConversationID: sessionID,
		TeacherID:      in.TeacherID,
		Role:           string(llm.RoleAssistant),
		Content:        finalText,
	}); err != nil {
		l.log.Error("save assistant message failed", "error", err)
	}

	l.maybeGenerateTitle(ctx, in.TeacherID, sessionID, in.Body)

	if err := sink.Complete(ctx, sessionID); err != nil {
		l.log.Warn("sink complete failed", "error", err)
	}

	return &TurnResult{
		SessionID:    sessionID,
		Reply:        finalText,
		ToolExecuted: toolExecuted,
	}, nil
}

// loadHistory returns the conversation so far, ending with the just-saved
// user message. A fetch failure degrades to the current message alone.
func (l *Loop) loadHistory(ctx context.Context, in TurnInput, sessionID string) []llm.Message {
	stored, err := l.convs.Messages(ctx, in.TeacherID, sessionID, false)
	if err != nil {
		l.log.Warn("history fetch failed", "session", sessionID, "error", err)
		return []llm.Message{{Role: llm.RoleUser, Content: in.Body}}
	}

	msgs := make([]llm.Message, 0, len(stored))
	for _, m := range stored {
		msgs = append(msgs, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	if len(msgs) == 0 {
		msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: in.Body})
	}
	return msgs
}

// systemPrompt builds the system prompt and tool set for the turn's kind.
// Profile lookups degrade to empty data; the model is told what it knows.
func (l *Loop) systemPrompt(ctx context.Context, kind store.ConversationKind, in TurnInput) (string, []llm.Tool) {
	if kind == store.KindStudent {
		p, err := l.profiles.GetProfile(ctx, in.StudentIDs[0])
		if err != nil {
			l.log.Warn("profile fetch failed", "student", in.StudentIDs[0], "error", err)
			p = &profile.Profile{}
		}
		rendered := profile.Render(*p, l.format, in.TeacherID)
		prompt := extraction.Fill(studentChatPromptTemplate, map[string]string{
			"STUDENT_PROFILE": rendered,
		})
		return prompt, []llm.Tool{editProfileTool}
	}

	profiles, err := l.profiles.ListProfiles(ctx)
	if err != nil {
		l.log.Warn("roster fetch failed", "error", err)
	}
	mappings, err := json.MarshalIndent(profile.StudentsData(profiles), "", "  ")
	if err != nil {
		mappings = []byte("{}")
	}
	prompt := extraction.Fill(generalChatPromptTemplate, map[string]string{
		"MAPPINGS_JSON": string(mappings),
	})
	return prompt, nil
}

// executeEditProfile runs the mutation tool and returns the JSON result
// passed back to the model. Tool failure never aborts the turn.
func (l *Loop) executeEditProfile(ctx context.Context, in TurnInput, rawInput string) string {
	var input map[string]any
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		l.log.Warn("tool input parse failed", "error", err)
		input = map[string]any{}
	}
	comment, _ := input["teacherComment"].(string)
	if comment == "" {
		comment = in.Body
	}

	result := map[string]any{"status": "ok", "teacherComment": comment}
	if err := l.profiles.EditProfile(ctx, in.StudentIDs[0], in.TeacherID, comment); err != nil {
		l.log.Warn("editStudentProfile failed", "student", in.StudentIDs[0], "error", err)
		result = map[string]any{"status": "error", "error": err.Error()}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return `{"status":"error"}`
	}
	return string(data)
}
