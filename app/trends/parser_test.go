package trends

import (
	"testing"
	"time"
)

func TestParseTimestamp_KnownLayouts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw      string
		expected time.Time
	}{
		{"2025-05-31T08:30:00Z", time.Date(2025, 5, 31, 8, 30, 0, 0, time.UTC)},
		{"2025-05-31 08:30:00", time.Date(2025, 5, 31, 8, 30, 0, 0, time.UTC)},
		{"2025-05-31", time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"Sat May 31 08:30:00 +0000 2025", time.Date(2025, 5, 31, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.raw, now); !got.Equal(tt.expected) {
			t.Errorf("parseTimestamp(%q) = %v, expected %v", tt.raw, got, tt.expected)
		}
	}
}

func TestParseTimestamp_DefaultsToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := parseTimestamp("", now); !got.Equal(now) {
		t.Errorf("Expected empty timestamp to default to now, got %v", got)
	}
	if got := parseTimestamp("last tuesday", now); !got.Equal(now) {
		t.Errorf("Expected unparsable timestamp to default to now, got %v", got)
	}
}

func TestNormalizeCandidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	raw := rawCandidate{
		Title:           "  Big Launch  ",
		Summary:         " Something shipped. ",
		TweetIDs:        []string{" 183456709182736458 ", "", "185093417762053421"},
		URL:             " https://x.com/a/status/183456709182736458 ",
		EngagementScore: -5,
		AuthorHandles:   []string{"@builder", "  "},
		MediaURLs:       nil,
		CreatedAt:       "2025-06-01T10:00:00Z",
	}

	item := normalizeCandidate(raw, now)

	if item.Title != "Big Launch" {
		t.Errorf("Expected trimmed title, got %q", item.Title)
	}
	if item.Summary != "Something shipped." {
		t.Errorf("Expected trimmed summary, got %q", item.Summary)
	}
	if len(item.SourcePostIDs) != 2 {
		t.Errorf("Expected 2 source post IDs after compaction, got %d", len(item.SourcePostIDs))
	}
	if item.SourceURL != "https://x.com/a/status/183456709182736458" {
		t.Errorf("Expected trimmed URL, got %q", item.SourceURL)
	}
	if item.EngagementScore != 0 {
		t.Errorf("Expected negative engagement clamped to 0, got %f", item.EngagementScore)
	}
	if len(item.AuthorHandles) != 1 {
		t.Errorf("Expected 1 author handle after compaction, got %d", len(item.AuthorHandles))
	}
	if !item.FirstSeenAt.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected parsed first-seen time, got %v", item.FirstSeenAt)
	}
}
