package trends

import "testing"

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		category Category
		slug     string
	}{
		{CategoryBreakingNews, "breaking-news"},
		{CategoryProduct, "product-launches-reviews"},
		{CategoryFunding, "funding-investments"},
		{CategoryRegulatory, "regulatory-policy-changes"},
		{CategorySecurity, "security-hacking"},
	}

	for _, tt := range tests {
		if got := tt.category.Slug(); got != tt.slug {
			t.Errorf("Slug(%s) = %q, expected %q", tt.category, got, tt.slug)
		}
	}
}

func TestParseCategory(t *testing.T) {
	byName, err := ParseCategory("Breaking News")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if byName != CategoryBreakingNews {
		t.Errorf("Expected CategoryBreakingNews, got %s", byName)
	}

	bySlug, err := ParseCategory("product-launches-reviews")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bySlug != CategoryProduct {
		t.Errorf("Expected CategoryProduct, got %s", bySlug)
	}

	if _, err := ParseCategory("sports"); err == nil {
		t.Error("Expected error for unknown category")
	}
}

func TestCategoryKeywords_UnknownFallsBackToTrending(t *testing.T) {
	kw := Category("Something Else").Keywords()
	if len(kw) == 0 {
		t.Fatal("Expected fallback keywords for unknown category")
	}
	trending := CategoryTrending.Keywords()
	if kw[0] != trending[0] {
		t.Errorf("Expected trending keywords, got %v", kw)
	}
}
