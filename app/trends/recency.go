package trends

import "time"

// Per-category recency ceilings. A candidate older than its category's
// ceiling is rejected outright, not down-ranked.
var maxAgeHours = map[Category]int{
	CategoryBreakingNews: 2,
	CategoryTrending:     24,
	CategoryCompanyNews:  48,
	CategoryRegulatory:   48,
	CategorySecurity:     48,
	CategoryProduct:      72,
	CategoryEmergingTech: 96,
	CategoryFunding:      168,
}

const defaultMaxAgeHours = 24

// MaxAge returns the maximum acceptable age for items in a category.
func MaxAge(category Category) time.Duration {
	hours, ok := maxAgeHours[category]
	if !ok {
		hours = defaultMaxAgeHours
	}
	return time.Duration(hours) * time.Hour
}

// IsAcceptable reports whether an item first seen at firstSeenAt is still
// within the category's recency ceiling at the given reference time.
func IsAcceptable(category Category, firstSeenAt, now time.Time) bool {
	return now.Sub(firstSeenAt) <= MaxAge(category)
}
