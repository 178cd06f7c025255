package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"opportunity-matcher/internal/docstore"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func TestSummarize(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	gen := &stubGenerator{text: "  - strong Go fit\n"}
	svc := NewSummaryService(newRanker(t, f), gen, zerolog.Nop())

	got := svc.Summarize(context.Background(), "ana", "go", 2, 0)
	if got.Summary != "- strong Go fit" {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
	if len(got.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got.Matches))
	}
	if !strings.Contains(gen.prompt, "1. full (job) score 0.400") {
		t.Fatalf("prompt does not list the top match:\n%s", gen.prompt)
	}
}

func TestSummarize_GeneratorFailure(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	svc := NewSummaryService(newRanker(t, f), &stubGenerator{err: errors.New("timeout")}, zerolog.Nop())

	got := svc.Summarize(context.Background(), "ana", "go", 2, 0)
	if got.Summary != "" {
		t.Fatalf("expected empty summary, got %q", got.Summary)
	}
	if len(got.Matches) != 2 {
		t.Fatalf("expected matches to survive, got %d", len(got.Matches))
	}
}

func TestSummarize_NothingToSummarize(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	gen := &stubGenerator{text: "unused"}
	svc := NewSummaryService(newRanker(t, f), gen, zerolog.Nop())

	got := svc.Summarize(context.Background(), "ana", "go", 5, 0.3)
	if got.Summary != "" || gen.prompt != "" {
		t.Fatalf("expected no generation call, got summary %q", got.Summary)
	}
}
