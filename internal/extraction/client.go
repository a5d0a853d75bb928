package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
	"github.com/k12coteacher/coteacher/internal/profile"
)

const (
	defaultMaxTokens   = 5000
	defaultTemperature = 0.2
)

// ParseError reports that one extraction unit produced unusable output.
// The pipeline logs and skips the unit; it never aborts the document.
type ParseError struct {
	Unit int
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unit %d: unparseable extraction output: %v", e.Unit, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client runs document extraction pipelines against an LLM provider.
type Client struct {
	provider    llm.Provider
	log         *logger.Logger
	concurrency int
	maxTokens   int
	temperature float64
}

// NewClient builds an extraction client with the pipeline defaults.
func NewClient(p llm.Provider, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		provider:    p,
		log:         log,
		concurrency: 4,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

// extractPartial sends one unit's messages and parses the profile partial
// out of the response.
func (c *Client) extractPartial(ctx context.Context, unit int, msgs []llm.Message) (profile.Partial, error) {
	resp, err := c.provider.Generate(ctx, llm.Request{
		Messages:    msgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return profile.Partial{}, fmt.Errorf("unit %d: %w", unit, err)
	}

	body, err := RecoverJSON(string(resp.Content))
	if err != nil {
		return profile.Partial{}, &ParseError{Unit: unit, Raw: string(resp.Content), Err: err}
	}

	var env profile.Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return profile.Partial{}, &ParseError{Unit: unit, Raw: string(resp.Content), Err: err}
	}
	return env.StudentProfilePartial, nil
}

// RecoverJSON slices the substring from the first '{' to the last '}' of
// raw. Models occasionally wrap the JSON object in prose or code fences;
// this recovers the object without attempting any deeper repair.
func RecoverJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return raw[start : end+1], nil
}
