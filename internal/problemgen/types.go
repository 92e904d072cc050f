package problemgen

// Problem is a single quiz question ready for display. Problems are values;
// nothing mutates one after it is created.
type Problem struct {
	// ID is unique per generated instance.
	ID string `json:"id"`

	// Text is the question prompt. May contain inline LaTeX between $...$
	// delimiters when HasLatex is set.
	Text string `json:"questionText"`

	// Answer is the exact numeric answer.
	Answer float64 `json:"answer"`

	// Level is the difficulty level the problem was generated for.
	Level Level `json:"level"`

	// Provenance tells generated content apart from fallback content.
	Provenance Provenance `json:"provenance"`

	HasLatex bool `json:"hasLatex,omitempty"`

	// Notice is a short user-facing explanation attached to degraded
	// problems, e.g. why no generated question was available.
	Notice string `json:"notice,omitempty"`
}

// Degraded reports whether p is fallback content. Degraded problems never
// score.
func (p Problem) Degraded() bool {
	return p.Provenance == ProvenanceFallback
}

// Provenance records where a problem came from.
type Provenance string

const (
	ProvenanceAI       Provenance = "ai-generated"
	ProvenanceFallback Provenance = "fallback-error"
)
