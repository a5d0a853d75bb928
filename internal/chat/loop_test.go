package chat

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
	"github.com/k12coteacher/coteacher/internal/profile"
	"github.com/k12coteacher/coteacher/internal/store"
)

type captureSink struct {
	texts     []string
	completed []string
}

func (s *captureSink) Send(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return nil
}

func (s *captureSink) Complete(_ context.Context, sessionID string) error {
	s.completed = append(s.completed, sessionID)
	return nil
}

func (s *captureSink) text() string { return strings.Join(s.texts, "") }

func newTestLoop(t *testing.T, mock *llm.MockProvider) (*Loop, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	svc := NewStoreProfileService(s.Profiles())
	loop := NewLoop(mock, s.Conversations(), svc, profile.DefaultFormatConfig(), logger.Nop())
	return loop, s
}

func TestTurnGeneralChat(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("Hello! How can I help?")},
		llm.MockResponse{Content: json.RawMessage("Planning question")}, // title
	)
	loop, s := newTestLoop(t, mock)
	sink := &captureSink{}
	ctx := context.Background()

	result, err := loop.Turn(ctx, TurnInput{
		Body:      "How should I group my class for reading?",
		TeacherID: "t1",
		ClassID:   "class-a",
	}, sink)
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("missing session id")
	}
	if result.ToolExecuted {
		t.Error("general chat must never execute the tool")
	}
	if result.Reply != "Hello! How can I help?" {
		t.Errorf("Reply = %q", result.Reply)
	}
	if sink.text() != "Hello! How can I help?" {
		t.Errorf("streamed text = %q", sink.text())
	}
	if len(sink.completed) != 1 || sink.completed[0] != result.SessionID {
		t.Errorf("completion signal = %v", sink.completed)
	}

	// No tool declarations on a general chat.
	if len(mock.Calls[0].Tools) != 0 {
		t.Errorf("tools offered on general chat: %v", mock.Calls[0].Tools)
	}

	conv, err := s.Conversations().Conversation(ctx, "t1", result.SessionID)
	if err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if conv.Kind != store.KindGeneral {
		t.Errorf("Kind = %q, want general", conv.Kind)
	}
	if conv.Title != "Planning question" {
		t.Errorf("Title = %q", conv.Title)
	}

	msgs, err := s.Conversations().Messages(ctx, "t1", result.SessionID, false)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user+assistant", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
}

func TestTurnStudentChatToolFlow(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Events: []llm.StreamEvent{
			{Type: llm.EventTextDelta, Text: "Let me note that. "},
			{Type: llm.EventToolUseStart, ToolID: "tu1", ToolName: "editStudentProfile"},
			{Type: llm.EventToolUseDelta, PartialJSON: `{"teacherComment":`},
			{Type: llm.EventToolUseDelta, PartialJSON: `"prefers visual aids"}`},
			{Type: llm.EventToolUseStop},
			{Type: llm.EventMessageStop, StopReason: llm.StopToolUse},
		}},
		llm.MockResponse{Content: json.RawMessage("I've recorded that observation.")},
		llm.MockResponse{Content: json.RawMessage("Visual aids note")}, // title
	)
	loop, s := newTestLoop(t, mock)
	ctx := context.Background()

	if err := s.Profiles().PutProfile(ctx, profile.Profile{StudentID: "s-1", FirstName: "Mai"}); err != nil {
		t.Fatal(err)
	}

	sink := &captureSink{}
	result, err := loop.Turn(ctx, TurnInput{
		Body:       "Mai prefers visual aids during math.",
		TeacherID:  "t1",
		StudentIDs: []string{"s-1"},
	}, sink)
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}

	if !result.ToolExecuted {
		t.Fatal("tool should have executed")
	}
	if result.Reply != "I've recorded that observation." {
		t.Errorf("Reply = %q, want the follow-up text", result.Reply)
	}

	// The student chat offers exactly the mutation tool.
	if len(mock.Calls[0].Tools) != 1 || mock.Calls[0].Tools[0].Name != "editStudentProfile" {
		t.Errorf("tools = %v", mock.Calls[0].Tools)
	}
	// The follow-up call carries the partial answer and the tool result.
	followup := mock.Calls[1]
	if len(followup.Tools) != 0 {
		t.Error("follow-up call must not offer tools")
	}
	last := followup.Messages[len(followup.Messages)-1]
	if last.Role != llm.RoleUser || !strings.Contains(last.Content, `"status":"ok"`) {
		t.Errorf("follow-up last message = %+v", last)
	}
	prev := followup.Messages[len(followup.Messages)-2]
	if prev.Role != llm.RoleAssistant || prev.Content != "Let me note that. " {
		t.Errorf("follow-up assistant message = %+v", prev)
	}

	// The comment landed on the profile.
	p, err := s.Profiles().GetProfile(ctx, "s-1")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.TeacherComments["t1"]; len(got) != 1 || got[0] != "prefers visual aids" {
		t.Errorf("teacher comments = %v", got)
	}

	// Exactly one assistant message, the final one.
	msgs, err := s.Conversations().Messages(ctx, "t1", result.SessionID, false)
	if err != nil {
		t.Fatal(err)
	}
	var assistant []string
	for _, m := range msgs {
		if m.Role == "assistant" {
			assistant = append(assistant, m.Content)
		}
	}
	if len(assistant) != 1 || assistant[0] != "I've recorded that observation." {
		t.Errorf("assistant messages = %v", assistant)
	}
}

func TestTurnToolInputParseFallback(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Events: []llm.StreamEvent{
			{Type: llm.EventToolUseStart, ToolID: "tu1", ToolName: "editStudentProfile"},
			{Type: llm.EventToolUseDelta, PartialJSON: `{"teacherComment": "unterminated`},
			{Type: llm.EventToolUseStop},
			{Type: llm.EventMessageStop, StopReason: llm.StopToolUse},
		}},
		llm.MockResponse{Content: json.RawMessage("Saved your note.")},
		llm.MockResponse{Content: json.RawMessage("Note")}, // title
	)
	loop, s := newTestLoop(t, mock)
	ctx := context.Background()

	if err := s.Profiles().PutProfile(ctx, profile.Profile{StudentID: "s-1"}); err != nil {
		t.Fatal(err)
	}

	result, err := loop.Turn(ctx, TurnInput{
		Body:       "Struggles with long division.",
		TeacherID:  "t1",
		StudentIDs: []string{"s-1"},
	}, &captureSink{})
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !result.ToolExecuted {
		t.Fatal("tool should still execute with unparseable input")
	}

	// The original message text substitutes for the missing comment.
	p, err := s.Profiles().GetProfile(ctx, "s-1")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.TeacherComments["t1"]; len(got) != 1 || got[0] != "Struggles with long division." {
		t.Errorf("teacher comments = %v", got)
	}
}

func TestTurnToolFailureStillReplies(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Events: []llm.StreamEvent{
			{Type: llm.EventToolUseStart, ToolID: "tu1", ToolName: "editStudentProfile"},
			{Type: llm.EventToolUseDelta, PartialJSON: `{"teacherComment":"x"}`},
			{Type: llm.EventToolUseStop},
			{Type: llm.EventMessageStop, StopReason: llm.StopToolUse},
		}},
		llm.MockResponse{Content: json.RawMessage("I couldn't save that, but I'll keep it in mind.")},
		llm.MockResponse{Content: json.RawMessage("Note")}, // title
	)
	loop, _ := newTestLoop(t, mock)

	// No profile stored for the student: the tool call fails.
	result, err := loop.Turn(context.Background(), TurnInput{
		Body:       "note",
		TeacherID:  "t1",
		StudentIDs: []string{"missing"},
	}, &captureSink{})
	if err != nil {
		t.Fatalf("tool failure must not fail the turn: %v", err)
	}
	if !result.ToolExecuted {
		t.Fatal("tool execution was attempted")
	}

	// The follow-up still ran, with the error in the tool result.
	followup := mock.Calls[1]
	last := followup.Messages[len(followup.Messages)-1]
	if !strings.Contains(last.Content, `"status":"error"`) {
		t.Errorf("tool result = %q", last.Content)
	}
	if result.Reply != "I couldn't save that, but I'll keep it in mind." {
		t.Errorf("Reply = %q", result.Reply)
	}
}

func TestTurnMissingInput(t *testing.T) {
	loop, _ := newTestLoop(t, llm.NewMockProvider())

	if _, err := loop.Turn(context.Background(), TurnInput{TeacherID: "t1"}, &captureSink{}); err == nil {
		t.Error("expected error for missing body")
	}
	if _, err := loop.Turn(context.Background(), TurnInput{Body: "hi"}, &captureSink{}); err == nil {
		t.Error("expected error for missing teacher id")
	}
}

func TestTurnUserMessageSurvivesModelFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	loop, s := newTestLoop(t, mock)
	ctx := context.Background()

	_, err := loop.Turn(ctx, TurnInput{Body: "hello", TeacherID: "t1"}, &captureSink{})
	if err == nil {
		t.Fatal("primary model failure must abort the turn")
	}

	convs, err := s.Conversations().ListConversations(ctx, "t1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 {
		t.Fatalf("conversations = %v", convs)
	}
	msgs, err := s.Conversations().Messages(ctx, "t1", convs[0].ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Errorf("messages = %v, want the user message alone", msgs)
	}
}

func TestTurnSecondTurnUsesHistory(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("First answer")},
		llm.MockResponse{Content: json.RawMessage("Title")},
		llm.MockResponse{Content: json.RawMessage("Second answer")},
	)
	loop, _ := newTestLoop(t, mock)
	ctx := context.Background()

	first, err := loop.Turn(ctx, TurnInput{Body: "first question", TeacherID: "t1"}, &captureSink{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := loop.Turn(ctx, TurnInput{
		Body:      "second question",
		TeacherID: "t1",
		SessionID: first.SessionID,
	}, &captureSink{})
	if err != nil {
		t.Fatal(err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session changed: %q vs %q", second.SessionID, first.SessionID)
	}

	// Second primary call sees the whole history ending with the new message.
	call := mock.Calls[2]
	if len(call.Messages) != 3 {
		t.Fatalf("history length = %d, want 3", len(call.Messages))
	}
	if call.Messages[1].Role != llm.RoleAssistant || call.Messages[1].Content != "First answer" {
		t.Errorf("history[1] = %+v", call.Messages[1])
	}
	if call.Messages[2].Content != "second question" {
		t.Errorf("history[2] = %+v", call.Messages[2])
	}

	// Title already set: only three model calls total.
	if mock.CallCount() != 3 {
		t.Errorf("call count = %d, want 3", mock.CallCount())
	}
}
