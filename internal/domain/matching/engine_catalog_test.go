package matching

import (
	"testing"

	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/domain/profile"
)

func TestCalculateCatalog_TagsOnly(t *testing.T) {
	p := profile.UserProfile{Tags: []string{"ai", "python"}}
	tpl := opportunity.Template{Tags: []string{"ai", "ml", "python"}}

	res := CalculateCatalog(p, tpl)

	if res.MaxScore != 50 {
		t.Fatalf("expected max score 50, got %d", res.MaxScore)
	}
	if res.Score != 67 {
		t.Fatalf("expected 67, got %d", res.Score)
	}
	if len(res.MatchedTags) != 2 {
		t.Fatalf("expected 2 matched tags, got %#v", res.MatchedTags)
	}
}

func TestCalculateCatalog_DuplicateUserTagsCountOnce(t *testing.T) {
	p := profile.UserProfile{Tags: []string{"ai", "AI", " ai "}}
	tpl := opportunity.Template{Tags: []string{"ai", "ml"}}

	res := CalculateCatalog(p, tpl)

	if res.Score != 50 {
		t.Fatalf("expected 50, got %d", res.Score)
	}
}

func TestCalculateCatalog_SubstringSkills(t *testing.T) {
	p := profile.UserProfile{Skills: []string{"Python"}}
	tpl := opportunity.Template{Skills: []string{"Python Developer", "SQL"}}

	res := CalculateCatalog(p, tpl)

	if res.MaxScore != 25 || res.Score != 50 {
		t.Fatalf("expected 50 of max 25, got %d of %d", res.Score, res.MaxScore)
	}
}

func TestCalculateCatalog_InterestsContainedEitherWay(t *testing.T) {
	p := profile.UserProfile{Interests: []string{"Machine Learning Research"}}
	tpl := opportunity.Template{Interests: []string{"machine learning"}}

	res := CalculateCatalog(p, tpl)

	if res.MaxScore != 15 || res.Score != 100 {
		t.Fatalf("expected 100 of max 15, got %d of %d", res.Score, res.MaxScore)
	}
}

func TestCalculateCatalog_BioKeywords(t *testing.T) {
	p := profile.UserProfile{Bio: "I design React interfaces"}
	tpl := opportunity.Template{Tags: []string{"react", "vue"}}

	res := CalculateCatalog(p, tpl)

	// user has no tags, so only the bio component applies
	if res.MaxScore != 10 || res.Score != 50 {
		t.Fatalf("expected 50 of max 10, got %d of %d", res.Score, res.MaxScore)
	}
}

func TestCalculateCatalog_NoApplicableComponents(t *testing.T) {
	res := CalculateCatalog(profile.Empty("u"), opportunity.Template{Tags: []string{"ai"}})
	if res.Score != 0 || res.MaxScore != 0 {
		t.Fatalf("expected zero with no applicable components, got %d of %d", res.Score, res.MaxScore)
	}
}

func TestCalculateCatalog_AlwaysWithinBounds(t *testing.T) {
	p := profile.UserProfile{
		Skills:    []string{"go", "golang", "g"},
		Interests: []string{"tech"},
		Tags:      []string{"go", "cloud", "k8s", "extra"},
		Bio:       "go cloud k8s",
	}
	tpl := opportunity.Template{
		Skills:    []string{"Go"},
		Interests: []string{"Technology"},
		Tags:      []string{"go", "cloud", "k8s"},
	}

	res := CalculateCatalog(p, tpl)

	if res.Score < 0 || res.Score > 100 {
		t.Fatalf("score out of range: %d", res.Score)
	}
	if res.Score != 100 {
		t.Fatalf("expected capped components to reach 100, got %d", res.Score)
	}
}
