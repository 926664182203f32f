package trends

import (
	"strings"
	"time"
)

// rawCandidate mirrors the loosely-typed JSON shape returned by the feed.
// Every field is optional as far as decoding is concerned; normalization
// decides what is usable.
type rawCandidate struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	TweetIDs        []string `json:"tweet_ids"`
	URL             string   `json:"url"`
	EngagementScore float64  `json:"engagement_score"`
	AuthorHandles   []string `json:"author_handles"`
	MediaURLs       []string `json:"media_urls"`
	CreatedAt       string   `json:"created_at"`
}

// Timestamp layouts observed in feed responses. RubyDate is the classic
// twitter created_at format.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RubyDate,
	time.RFC1123Z,
}

// parseTimestamp parses a feed timestamp, defaulting to now when the value is
// missing or unparsable in any known layout.
func parseTimestamp(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return now
}

// normalizeCandidate converts a raw response item into a validated
// CandidateItem. Whitespace is trimmed and empty list entries dropped;
// placeholder detection happens later in the orchestrator's cascade.
func normalizeCandidate(raw rawCandidate, now time.Time) CandidateItem {
	item := CandidateItem{
		Title:           strings.TrimSpace(raw.Title),
		Summary:         strings.TrimSpace(raw.Summary),
		SourceURL:       strings.TrimSpace(raw.URL),
		EngagementScore: raw.EngagementScore,
		FirstSeenAt:     parseTimestamp(raw.CreatedAt, now),
	}
	if item.EngagementScore < 0 {
		item.EngagementScore = 0
	}
	item.SourcePostIDs = compactStrings(raw.TweetIDs)
	item.AuthorHandles = compactStrings(raw.AuthorHandles)
	item.MediaURLs = compactStrings(raw.MediaURLs)
	return item
}

func compactStrings(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
