package problemgen

import (
	"math"
	"strings"
	"testing"
)

func validProblem() *Problem {
	return &Problem{
		ID:         "p1",
		Text:       "What is 345 + 278?",
		Answer:     623,
		Level:      3,
		Provenance: ProvenanceAI,
	}
}

func TestStructural_ValidProblem(t *testing.T) {
	v := StructuralValidator{}
	if err := v.Validate(validProblem()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStructural_EmptyText(t *testing.T) {
	v := StructuralValidator{}
	p := validProblem()
	p.Text = "  \n"
	err := v.Validate(p)
	if err == nil {
		t.Fatal("expected error for blank text")
	}
	if !strings.Contains(err.Message, "empty") {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Validator != "structural" {
		t.Errorf("expected validator structural, got %q", err.Validator)
	}
}

func TestStructural_TextTooLong(t *testing.T) {
	v := StructuralValidator{}
	p := validProblem()
	p.Text = strings.Repeat("é", maxTextLen+1)
	if err := v.Validate(p); err == nil {
		t.Fatal("expected error for long text")
	}

	p.Text = strings.Repeat("é", maxTextLen)
	if err := v.Validate(p); err != nil {
		t.Fatalf("text at the limit should pass, got %v", err)
	}
}

func TestStructural_NonFiniteAnswer(t *testing.T) {
	v := StructuralValidator{}
	for _, a := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := validProblem()
		p.Answer = a
		if err := v.Validate(p); err == nil {
			t.Errorf("expected error for answer %v", a)
		}
	}
}
