// Package llm talks to hosted language models. Every backend is reduced to
// one call shape: a system prompt and a single user prompt in, a JSON or
// text document out.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one completion per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, e.g. "gemini-2.0-flash".
	ModelID() string
}

// Format selects the shape of the response document.
type Format int

const (
	// FormatText returns whatever the model wrote.
	FormatText Format = iota

	// FormatJSONArray asks for a bare JSON array. Strict structured-output
	// modes reject array roots on most backends, so the Schema, when set, is
	// only a hint that backends able to enforce it natively will use. The
	// caller validates the document.
	FormatJSONArray

	// FormatSchema asks for a JSON object matching Request.Schema. The
	// document is validated before it is returned.
	FormatSchema
)

func (f Format) String() string {
	switch f {
	case FormatJSONArray:
		return "json-array"
	case FormatSchema:
		return "schema"
	}
	return "text"
}

// Request is a single-turn prompt.
type Request struct {
	System string
	Prompt string

	Format Format
	Schema *Schema

	MaxTokens int

	// Temperature in 0..2. Zero leaves the backend default.
	Temperature float64
}

// Schema is a JSON Schema with a name backends can show the model.
type Schema struct {
	// Name is kebab-case, e.g. "problem-batch-5". Compiled validators are
	// cached by name.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a finished completion.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// reply is what a backend hands back before the shared checks.
type reply struct {
	text      string
	usage     Usage
	model     string
	truncated bool
}

// finish applies the checks every backend shares. Output cut off at
// MaxTokens is an error, since a partial JSON document is useless, and
// FormatSchema documents must validate.
func finish(req Request, r reply) (*Response, error) {
	content := json.RawMessage(strings.TrimSpace(r.text))
	if r.truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if req.Format == FormatSchema {
		if err := req.Schema.Validate(content); err != nil {
			return nil, err
		}
	}

	if r.usage.TotalTokens == 0 {
		r.usage.TotalTokens = r.usage.InputTokens + r.usage.OutputTokens
	}
	return &Response{Content: content, Usage: r.usage, Model: r.model}, nil
}

// resolveModel maps a short alias to a model ID. Unknown names pass through
// so any model the backend serves can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
