package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a math question generator for an adaptive, timed quiz.

Rules:
- Generate problems that match the given level, learner and topic.
- Every problem must have exactly one correct answer that is a single number. Use decimals rather than fractions (0.5, not 1/2).
- The question text is the question only, clear and concise, with no answer, hint or working.
- Problems must be solvable in well under a minute by a learner at that level.
- Inline math may use LaTeX between $...$ delimiters; set "hasLatex" to true for those problems.
- Vary the problems within a batch; do not repeat the same numbers or structure.
- Output only the JSON array. No introductory text, explanations or markdown fences.`

// buildUserMessage constructs the user message for one batch request.
func buildUserMessage(level Level, count int, topic string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Level: %d of %d (%s)\n", int(level), int(MaxLevel), level.Name())
	fmt.Fprintf(&b, "Learner: %s\n", level.Audience())
	fmt.Fprintf(&b, "Difficulty: %s\n", level.Description())
	fmt.Fprintf(&b, "Topic focus: %s\n", topic)

	fmt.Fprintf(&b, "\nRespond with a JSON array of exactly %d objects. Each object has:\n", count)
	b.WriteString(`- "questionText": string, the problem, e.g. "What is 5 + 7?"` + "\n")
	b.WriteString(`- "answer": number, the correct answer` + "\n")
	b.WriteString(`- "hasLatex": boolean, optional, true when questionText contains LaTeX` + "\n")

	b.WriteString("\nExample:\n")
	b.WriteString(`[{"questionText": "If a rectangle has a length of 10 units and a width of 5 units, what is its area?", "answer": 50}]`)

	return b.String()
}
