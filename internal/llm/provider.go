package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive the raw model text,
// optionally validated against a JSON schema.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema, and the Content is validated before
	// being returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// StreamProvider is implemented by providers that support incremental
// streaming with optional tool use. Events are delivered to the callback in
// arrival order; the returned Response carries the assembled text.
type StreamProvider interface {
	Provider

	// GenerateStream streams the response for req, invoking fn once per
	// event. Tool declarations in req.Tools are offered to the model; a
	// tool request surfaces as ToolUseStart/ToolUseDelta/ToolUseStop events
	// followed by a MessageStop with StopReason "tool_use".
	GenerateStream(ctx context.Context, req Request, fn StreamFunc) (*Response, error)
}

// AsStreamer reports whether p supports streaming. Middleware decorators
// forward the capability of their inner provider.
func AsStreamer(p Provider) (StreamProvider, bool) {
	sp, ok := p.(StreamProvider)
	return sp, ok
}

// StreamFunc receives stream events. It must not block for long; slow
// consumers stall the provider's network read loop.
type StreamFunc func(ev StreamEvent)

// StreamEventType discriminates StreamEvent payloads.
type StreamEventType string

const (
	EventTextDelta    StreamEventType = "text_delta"
	EventToolUseStart StreamEventType = "tool_use_start"
	EventToolUseDelta StreamEventType = "tool_use_delta"
	EventToolUseStop  StreamEventType = "tool_use_stop"
	EventMessageStop  StreamEventType = "message_stop"
)

// StreamEvent is one incremental unit of a streamed response.
type StreamEvent struct {
	Type StreamEventType

	// Text is set for EventTextDelta.
	Text string

	// ToolID and ToolName are set for EventToolUseStart.
	ToolID   string
	ToolName string

	// PartialJSON is an input-JSON fragment, set for EventToolUseDelta.
	PartialJSON string

	// StopReason is set for EventMessageStop.
	// Normalized to: "end", "max_tokens", "tool_use".
	StopReason string
}

// Tool declares a capability the model may request mid-response.
type Tool struct {
	// Name identifies the tool, e.g. "editStudentProfile".
	Name string

	// Description tells the model when to use the tool.
	Description string

	// InputSchema is the JSON Schema for the tool's input as a map.
	InputSchema map[string]any
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history in chronological order.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism
	// and validates the response before returning it. Ignored for
	// streaming requests.
	Schema *Schema

	// Tools are tool declarations offered to the model. Only honored by
	// streaming requests.
	Tools []Tool

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64

	// TopP is nucleus sampling. Zero means provider default.
	TopP float64
}

// Message represents a single message in the conversation.
// A message is text, optionally preceded by one attached media unit
// (a rendered page image or a single-page PDF).
type Message struct {
	Role    Role
	Content string
	Media   *Media
}

// Media is a binary attachment on a message.
type Media struct {
	// MediaType is the MIME type: "image/png", "image/jpeg",
	// or "application/pdf".
	MediaType string
	Data      []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (used as tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "student-profile-partial".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. Otherwise it is the raw
	// text (for streamed responses, the concatenation of all text deltas).
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "tool_use", "error".
	StopReason string
}

// Text returns the response content as a plain string.
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Normalized stop reasons shared across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopToolUse   = "tool_use"
)
