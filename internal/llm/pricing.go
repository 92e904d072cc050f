package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// priceTable is matched by longest prefix, so dated snapshots such as
// "gemini-2.0-flash-001" price like their family. Lite and mini variants
// need their own, longer prefixes. Prices as published in February 2026.
var priceTable = []struct {
	prefix string
	cost   ModelCost
}{
	{"gemini-2.0-flash", ModelCost{0.10, 0.40}},
	{"gemini-2.0-flash-lite", ModelCost{0.075, 0.30}},
	{"gemini-2.5-flash", ModelCost{0.30, 2.50}},
	{"gemini-2.5-flash-lite", ModelCost{0.10, 0.40}},
	{"gemini-2.5-pro", ModelCost{1.25, 10}},
	{"gemini-3-flash", ModelCost{0.50, 3}},
	{"gemini-3-pro", ModelCost{2, 12}},

	{"gpt-4o", ModelCost{2.50, 10}},
	{"gpt-4o-mini", ModelCost{0.15, 0.60}},
	{"gpt-4.1", ModelCost{2, 8}},
	{"gpt-4.1-mini", ModelCost{0.40, 1.60}},
	{"gpt-4.1-nano", ModelCost{0.10, 0.40}},
	{"gpt-5", ModelCost{1.25, 10}},
	{"gpt-5-mini", ModelCost{0.25, 2}},
	{"gpt-5-nano", ModelCost{0.05, 0.40}},

	{"claude-haiku-4-5", ModelCost{1, 5}},
	{"claude-sonnet-4", ModelCost{3, 15}},
	{"claude-opus-4-5", ModelCost{5, 25}},
}

// LookupCost prices model, or returns nil when no entry matches. OpenRouter
// routes ("google/gemini-2.0-flash-001") are matched without the vendor.
func LookupCost(model string) *ModelCost {
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		model = model[i+1:]
	}
	best := -1
	for i, e := range priceTable {
		if strings.HasPrefix(model, e.prefix) && (best < 0 || len(e.prefix) > len(priceTable[best].prefix)) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	c := priceTable[best].cost
	return &c
}
