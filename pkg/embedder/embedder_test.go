package embedder

import (
	"math"
	"testing"
	"time"
)

func TestEmbedIsDeterministic(t *testing.T) {
	h := New(32)
	a := h.Embed("cute dogs like to play")
	b := h.Embed("cute dogs like to play")
	if len(a) != len(b) {
		t.Fatalf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEmbedFixedDimension(t *testing.T) {
	h := New(24)
	for _, s := range []string{"", "a", "a long sentence with many different words in it"} {
		vec := h.Embed(s)
		if len(vec) != 24 {
			t.Fatalf("expected dimension 24 for %q, got %d", s, len(vec))
		}
	}
}

func TestEmbedEmptyStringIsZeroVector(t *testing.T) {
	h := New(16)
	vec := h.Embed("")
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector for empty string, index %d = %v", i, v)
		}
	}
}

func TestEmbedIsNormalized(t *testing.T) {
	h := New(16)
	vec := h.Embed("several distinct words here to accumulate weight")
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	mag := math.Sqrt(sumSquares)
	if mag < 0.99 || mag > 1.01 {
		t.Fatalf("expected unit-length vector, got magnitude %v", mag)
	}
}

func TestDefaultDimensionUsedWhenNonPositive(t *testing.T) {
	h := New(0)
	if h.Dimension() != DefaultDimension {
		t.Fatalf("expected default dimension %d, got %d", DefaultDimension, h.Dimension())
	}
}

func TestWithCacheReturnsConsistentResult(t *testing.T) {
	h := New(16, WithCache(100, time.Minute))
	first := h.Embed("repeated text")
	second := h.Embed("repeated text")
	if len(first) != len(second) {
		t.Fatal("cached result has different dimension")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cached embedding differs at index %d", i)
		}
	}
}

func TestDistinctTextsUsuallyDiffer(t *testing.T) {
	h := New(64)
	a := h.Embed("dog")
	b := h.Embed("ducks like to eat bread")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected distinct inputs to produce distinct embeddings")
	}
}
