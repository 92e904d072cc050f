package problemgen

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestFallback_AllLevels(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for level := MinLevel; level <= MaxLevel; level++ {
		for i := 0; i < 50; i++ {
			p := FallbackWithRand(level, r)

			if p.Provenance != ProvenanceFallback || !p.Degraded() {
				t.Fatalf("level %d: expected fallback provenance, got %q", level, p.Provenance)
			}
			if p.Level != level {
				t.Fatalf("expected level %d, got %d", level, p.Level)
			}
			if p.ID == "" {
				t.Fatal("expected non-empty id")
			}
			if !strings.HasPrefix(p.Text, "What is ") || !strings.HasSuffix(p.Text, "?") {
				t.Fatalf("unexpected text %q", p.Text)
			}
			if !ConsistentAnswer(p.Text, p.Answer) {
				t.Fatalf("answer %v inconsistent with %q", p.Answer, p.Text)
			}
			if strings.ContainsAny(p.Text, "*/") {
				t.Fatalf("text should use display operators: %q", p.Text)
			}
		}
	}
}

func TestFallback_ClampsLevel(t *testing.T) {
	if p := Fallback(0); p.Level != MinLevel {
		t.Errorf("expected level %d, got %d", MinLevel, p.Level)
	}
	if p := Fallback(99); p.Level != MaxLevel {
		t.Errorf("expected level %d, got %d", MaxLevel, p.Level)
	}
}

func TestFallback_UniqueIDs(t *testing.T) {
	a, b := Fallback(1), Fallback(1)
	if a.ID == b.ID {
		t.Error("expected distinct ids")
	}
}

func TestFallback_EarlyLevelsNonNegative(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		p := FallbackWithRand(1, r)
		if p.Answer < 0 {
			t.Fatalf("level 1 answer should not be negative: %q = %v", p.Text, p.Answer)
		}
	}
}
