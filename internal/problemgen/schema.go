package problemgen

import (
	"fmt"
	"sync"

	"github.com/fol2/mathsquiz/internal/llm"
)

// problemItemSchema describes one entry of a batch response.
var problemItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questionText": map[string]any{
			"type":        "string",
			"description": "The problem shown to the learner",
		},
		"answer": map[string]any{
			"type":        "number",
			"description": "The single numeric answer",
		},
		"hasLatex": map[string]any{
			"type":        "boolean",
			"description": "True when questionText contains LaTeX math",
		},
	},
	"required": []any{"questionText", "answer"},
}

var batchSchemas sync.Map // map[int]*llm.Schema

// batchSchema returns the schema for a batch of exactly count problems.
// Schemas are cached per count so compiled validators are reused.
func batchSchema(count int) *llm.Schema {
	if s, ok := batchSchemas.Load(count); ok {
		return s.(*llm.Schema)
	}
	s := &llm.Schema{
		Name:        fmt.Sprintf("problem-batch-%d", count),
		Description: fmt.Sprintf("A batch of exactly %d math problems", count),
		Definition: map[string]any{
			"type":     "array",
			"items":    problemItemSchema,
			"minItems": count,
			"maxItems": count,
		},
	}
	actual, _ := batchSchemas.LoadOrStore(count, s)
	return actual.(*llm.Schema)
}

// credentialProbeSchema is the minimal structured request used to check a
// credential.
var credentialProbeSchema = &llm.Schema{
	Name:        "credential-probe",
	Description: "Acknowledgement that the request was received",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ok": map[string]any{"type": "boolean"},
		},
		"required":             []any{"ok"},
		"additionalProperties": false,
	},
}
