package trends

import (
	"fmt"
	"strings"
	"time"
)

const searchSystemPrompt = "You are a tech-news research assistant. You find real, currently trending stories " +
	"on X and report them as structured JSON. Only report stories backed by real posts; never invent post IDs or links."

// buildSearchPrompt constructs the live-search prompt for one category fetch.
func buildSearchPrompt(category Category, keywords []string, maxAge time.Duration, limit int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Find up to %d trending tech-news stories in the category %q.\n", limit, category))
	sb.WriteString(fmt.Sprintf("Focus keywords: %s\n", strings.Join(keywords, ", ")))
	sb.WriteString(fmt.Sprintf("Only include stories first posted within the last %d hours.\n\n", int(maxAge.Hours())))

	sb.WriteString("For each story provide:\n")
	sb.WriteString("- title: short headline\n")
	sb.WriteString("- summary: 2-3 sentence summary\n")
	sb.WriteString("- tweet_ids: numeric IDs of the real source posts, most relevant first\n")
	sb.WriteString("- url: link to the primary source post\n")
	sb.WriteString("- engagement_score: combined likes+reposts+replies of the source posts\n")
	sb.WriteString("- author_handles: handles of the post authors\n")
	sb.WriteString("- media_urls: image URLs attached to the posts, if any\n")
	sb.WriteString("- created_at: when the primary source post was created (ISO 8601)\n\n")

	sb.WriteString("Respond with a JSON array only:\n")
	sb.WriteString("```json\n")
	sb.WriteString("[\n")
	sb.WriteString("  {\n")
	sb.WriteString("    \"title\": \"...\",\n")
	sb.WriteString("    \"summary\": \"...\",\n")
	sb.WriteString("    \"tweet_ids\": [\"1790000000000000001\"],\n")
	sb.WriteString("    \"url\": \"https://x.com/user/status/1790000000000000001\",\n")
	sb.WriteString("    \"engagement_score\": 1500,\n")
	sb.WriteString("    \"author_handles\": [\"user\"],\n")
	sb.WriteString("    \"media_urls\": [],\n")
	sb.WriteString("    \"created_at\": \"2025-01-01T12:00:00Z\"\n")
	sb.WriteString("  }\n")
	sb.WriteString("]\n")
	sb.WriteString("```\n")

	return sb.String()
}

const draftSystemPrompt = "You are an experienced tech-news editor writing blog drafts from curated story leads. " +
	"You write clean HTML body content and respond with structured JSON only."

// buildDraftPrompt constructs the draft-generation prompt from a stored story.
func buildDraftPrompt(title, summary, category string, engagementScore float64, primaryLink string, authorHandles, mediaURLs []string) string {
	var sb strings.Builder

	sb.WriteString("Write a blog post draft for the following curated story.\n\n")
	sb.WriteString("## Story\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", title))
	sb.WriteString(fmt.Sprintf("Summary: %s\n", summary))
	sb.WriteString(fmt.Sprintf("Category: %s\n", category))
	sb.WriteString(fmt.Sprintf("Engagement score: %.0f\n", engagementScore))
	if primaryLink != "" {
		sb.WriteString(fmt.Sprintf("Primary source: %s\n", primaryLink))
	}
	if len(authorHandles) > 0 {
		sb.WriteString(fmt.Sprintf("Source authors: @%s\n", strings.Join(authorHandles, ", @")))
	}
	if len(mediaURLs) > 0 {
		sb.WriteString(fmt.Sprintf("Source media: %s\n", strings.Join(mediaURLs, ", ")))
	}

	sb.WriteString("\n## Task\n\n")
	sb.WriteString("Produce:\n")
	sb.WriteString("1. title: engaging headline, max 80 characters\n")
	sb.WriteString("2. content: 400-700 word article body as HTML (<p>, <h2>, <ul> only)\n")
	sb.WriteString("3. excerpt: 1-2 sentence teaser\n")
	sb.WriteString("4. metaTitle: SEO title, max 60 characters\n")
	sb.WriteString("5. metaDescription: SEO description, max 160 characters\n")
	sb.WriteString("6. tags: 3-6 topical tags\n")
	sb.WriteString("7. suggestedCategory: best-fitting category name\n")
	sb.WriteString("8. recommendedImages: up to 3 objects with url, description, source\n\n")

	sb.WriteString("Respond with a single JSON object in this exact format:\n")
	sb.WriteString("```json\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"title\": \"...\",\n")
	sb.WriteString("  \"content\": \"<p>...</p>\",\n")
	sb.WriteString("  \"excerpt\": \"...\",\n")
	sb.WriteString("  \"metaTitle\": \"...\",\n")
	sb.WriteString("  \"metaDescription\": \"...\",\n")
	sb.WriteString("  \"tags\": [\"...\"],\n")
	sb.WriteString("  \"suggestedCategory\": \"...\",\n")
	sb.WriteString("  \"recommendedImages\": [{\"url\": \"...\", \"description\": \"...\", \"source\": \"...\"}]\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n")

	return sb.String()
}
