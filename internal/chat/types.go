package chat

import (
	"context"

	"github.com/k12coteacher/coteacher/internal/profile"
)

// TurnInput is one inbound teacher message.
type TurnInput struct {
	// Body is the message text. Required.
	Body string

	// TeacherID identifies the sender. Required.
	TeacherID string

	// SessionID continues an existing conversation. Empty starts a new one.
	SessionID string

	// StudentIDs scope the conversation. Exactly one id makes this a
	// student chat with the profile-mutation tool available; any other
	// count makes it a general chat.
	StudentIDs []string

	// ClassID tags new conversations for listing filters.
	ClassID string
}

// TurnResult summarizes a completed turn.
type TurnResult struct {
	SessionID    string
	Reply        string
	ToolExecuted bool
}

// Sink receives the streamed response. Send is called once per text delta;
// Complete is called once when the turn finishes. Sink errors are logged
// and ignored so a dropped connection never corrupts the turn.
type Sink interface {
	Send(ctx context.Context, text string) error
	Complete(ctx context.Context, sessionID string) error
}

// ProfileService is the student-profile boundary the loop talks to. It may
// be backed by the local store or by the remote profile API.
type ProfileService interface {
	GetProfile(ctx context.Context, studentID string) (*profile.Profile, error)

	// EditProfile appends a teacher comment to the student's profile.
	EditProfile(ctx context.Context, studentID, teacherID, comment string) error

	// ListProfiles returns every known profile, used to build the
	// student roster for general chats.
	ListProfiles(ctx context.Context) ([]profile.Profile, error)
}
