package trends

import (
	"net/url"
	"regexp"
	"strings"
)

// Source post links are canonicalized to the i/web redirect form, which
// resolves regardless of the author's handle.
const canonicalStatusPrefix = "https://twitter.com/i/web/status/"

var (
	numericIDPattern  = regexp.MustCompile(`^[0-9]{15,20}$`)
	statusPathPattern = regexp.MustCompile(`/status(?:es)?/([0-9]+)`)
)

var knownHostTokens = []string{"twitter.com", "x.com"}

var placeholderHostTokens = []string{"example.com", "test.com", "placeholder", "dummy"}

// ExtractPostID pulls the numeric post ID out of a status URL. Returns ""
// when the URL carries no status path.
func ExtractPostID(rawURL string) string {
	m := statusPathPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// IsValidPostID reports whether id looks like a real source post identifier:
// purely numeric, 15-20 digits, and not matching any placeholder heuristic.
func IsValidPostID(id string) bool {
	if !numericIDPattern.MatchString(id) {
		return false
	}
	return !IsPlaceholderID(id)
}

// IsPlaceholderID applies the synthetic-identifier heuristics. Upstream
// generators are known to fabricate IDs from repeated or sequential digits;
// any single match marks the ID as a placeholder.
func IsPlaceholderID(id string) bool {
	if len(id) >= 11 && isSingleDigitRepeat(id) {
		return true
	}
	if strings.Contains(id, "123456789012345") || strings.Contains(id, "1234567890") {
		return true
	}
	if hasRepeatingBlock(id) {
		return true
	}
	if longestAscendingRun(id) >= 10 {
		return true
	}
	return false
}

func isSingleDigitRepeat(id string) bool {
	for i := 1; i < len(id); i++ {
		if id[i] != id[0] {
			return false
		}
	}
	return len(id) > 0
}

// hasRepeatingBlock detects IDs built from a 2-5 digit block repeated until
// the length is filled, e.g. 121212121212121 or 123451234512345.
func hasRepeatingBlock(id string) bool {
	for period := 2; period <= 5; period++ {
		if len(id) < period*2 {
			continue
		}
		matches := true
		for i := period; i < len(id); i++ {
			if id[i] != id[i-period] {
				matches = false
				break
			}
		}
		if matches {
			return true
		}
	}
	return false
}

// longestAscendingRun returns the length of the longest run of consecutive
// digits ascending mod 10, so 789012 counts as a run of six.
func longestAscendingRun(id string) int {
	if id == "" {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(id); i++ {
		if id[i] == '0'+(id[i-1]-'0'+1)%10 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// IsValidSourceURL reports whether rawURL is an absolute http(s) URL on a
// known source host, free of placeholder host tokens, whose embedded post ID
// passes validation.
func IsValidSourceURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	// Placeholder tokens only disqualify the host itself; a token appearing
	// in the path or query of a legitimate host is fine.
	host := strings.ToLower(u.Hostname())
	for _, token := range placeholderHostTokens {
		if strings.Contains(host, token) {
			return false
		}
	}

	known := false
	for _, token := range knownHostTokens {
		if strings.Contains(host, token) {
			known = true
			break
		}
	}
	if !known {
		return false
	}

	return IsValidPostID(ExtractPostID(rawURL))
}

// ConstructURL builds the canonical status URL for a valid post ID, or ""
// if the ID is invalid or a placeholder.
func ConstructURL(id string) string {
	if !IsValidPostID(id) {
		return ""
	}
	return canonicalStatusPrefix + id
}

// ResolvePrimaryLink picks the trustworthy source link for a story. It tries,
// in order: the candidate URL as-is when it fully validates, then a canonical
// URL constructed from the first valid entry of sourcePostIDs, then "".
// The order is what keeps synthetic links from an upstream generator out of
// persisted stories; do not reorder.
func ResolvePrimaryLink(candidateURL string, sourcePostIDs []string) string {
	if candidateURL != "" && IsValidSourceURL(candidateURL) {
		return candidateURL
	}
	for _, id := range sourcePostIDs {
		if constructed := ConstructURL(id); constructed != "" {
			return constructed
		}
	}
	return ""
}
