package problemgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fol2/mathsquiz/internal/llm"
)

// fenceRe matches a response wrapped in a markdown code fence, with or
// without a language tag.
var fenceRe = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// problemOutput is one raw batch entry before validation.
type problemOutput struct {
	QuestionText string  `json:"questionText"`
	Answer       float64 `json:"answer"`
	HasLatex     bool    `json:"hasLatex"`
}

// stripCodeFence removes an optional ```json ... ``` wrapper.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return s
}

// unwrapJSONString handles providers that hand back the document as a JSON
// string literal.
func unwrapJSONString(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return s
	}
	return strings.TrimSpace(inner)
}

// parseBatch decodes and shape-checks a raw batch response. It returns
// ErrEmptyBatch for an empty array and *ErrMalformedResponse for anything
// that is not an array of exactly count well-typed entries.
func parseBatch(content []byte, count int) ([]problemOutput, error) {
	raw := unwrapJSONString(stripCodeFence(string(content)))

	var probe []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, &ErrMalformedResponse{
			Content: raw,
			Err:     fmt.Errorf("not a JSON array: %w", err),
		}
	}
	if len(probe) == 0 {
		return nil, ErrEmptyBatch
	}

	if err := batchSchema(count).Validate(json.RawMessage(raw)); err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			err = inv.Err
		}
		return nil, &ErrMalformedResponse{Content: raw, Err: err}
	}

	var out []problemOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &ErrMalformedResponse{Content: raw, Err: err}
	}
	return out, nil
}
