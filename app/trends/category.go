package trends

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryBreakingNews Category = "Breaking News"
	CategoryTrending     Category = "Trending Stories"
	CategoryCompanyNews  Category = "Company News"
	CategoryProduct      Category = "Product Launches & Reviews"
	CategoryFunding      Category = "Funding & Investments"
	CategoryRegulatory   Category = "Regulatory & Policy Changes"
	CategorySecurity     Category = "Security & Hacking"
	CategoryEmergingTech Category = "Emerging Technologies"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryBreakingNews,
	CategoryTrending,
	CategoryCompanyNews,
	CategoryProduct,
	CategoryFunding,
	CategoryRegulatory,
	CategorySecurity,
	CategoryEmergingTech,
}

func (c Category) String() string {
	return string(c)
}

// Slug returns the URL-safe identifier used in API paths and config filenames,
// e.g. "Product Launches & Reviews" -> "product-launches-reviews".
func (c Category) Slug() string {
	s := strings.ToLower(string(c))
	s = strings.ReplaceAll(s, "&", "")
	s = strings.Join(strings.Fields(s), "-")
	return s
}

func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ParseCategory accepts either the display name or the slug form.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s || c.Slug() == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// categoryKeywords drive both the search query sent to the feed and the
// deterministic tag fallback in draft generation.
var categoryKeywords = map[Category][]string{
	CategoryBreakingNews: {"breaking news", "tech industry"},
	CategoryTrending:     {"trending", "viral tech"},
	CategoryCompanyNews:  {"company announcement", "big tech"},
	CategoryProduct:      {"product launch", "product review"},
	CategoryFunding:      {"startup funding", "venture capital"},
	CategoryRegulatory:   {"tech regulation", "tech policy"},
	CategorySecurity:     {"cybersecurity", "data breach"},
	CategoryEmergingTech: {"emerging technology", "AI"},
}

// Keywords returns the default search keywords for a category. Unknown
// categories fall back to the trending keyword set.
func (c Category) Keywords() []string {
	if kw, ok := categoryKeywords[c]; ok {
		return kw
	}
	return categoryKeywords[CategoryTrending]
}
