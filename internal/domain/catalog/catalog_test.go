package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_LoadsEmbeddedTemplates(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 58 {
		t.Fatalf("expected 58 templates, got %d", c.Len())
	}

	first := c.Templates()[0]
	if first.Title != "Senior Full-Stack Developer" || first.UrgencyDays != 7 {
		t.Fatalf("unexpected first template: %#v", first)
	}
	if len(first.Tags) == 0 || len(first.Skills) == 0 {
		t.Fatalf("expected tags and skills on first template")
	}
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := c.Templates()
	list[0].Title = "mutated"
	if c.Templates()[0].Title == "mutated" {
		t.Fatalf("catalog must not expose its backing slice")
	}
}

func TestParse_RejectsUntitledEntry(t *testing.T) {
	_, err := Parse([]byte("templates:\n  - type: Job\n    urgency_days: 3\n"))
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "templates:\n  - title: Mentor\n    tags: [ai]\n    urgency_days: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 || c.Templates()[0].Tags[0] != "ai" {
		t.Fatalf("unexpected catalog: %#v", c.Templates())
	}

	def, err := LoadFile("")
	if err != nil || def.Len() != 58 {
		t.Fatalf("expected embedded fallback, got %v %v", def, err)
	}
}
