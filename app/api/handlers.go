package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trendcomb/trendcomb/app/database"
	"github.com/trendcomb/trendcomb/app/trends"
)

func NewHandler(storyRepo database.StoryRepository, categoryRepo database.CategoryRepository,
	settingsRepo database.SettingsRepository, auditRepo database.AuditRepository,
	generator DraftGeneratorInterface, fetcher FetcherInterface, publisher PublisherInterface,
	configCache *trends.ConfigCache, version string) *Handler {
	return &Handler{
		storyRepo:    storyRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		generator:    generator,
		fetcher:      fetcher,
		publisher:    publisher,
		configCache:  configCache,
		version:      version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if categoryCount, err := h.categoryRepo.GetCategoryCount(); err == nil {
		health["categories"] = categoryCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.storyRepo.GetStoryStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_story_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListStories(c *gin.Context) {
	filter := database.StoryFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	if filter.Status != "" && !trends.IsValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter: " + filter.Status})
		return
	}

	if filter.Category != "" {
		category, err := trends.ParseCategory(filter.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + filter.Category})
			return
		}
		filter.Category = string(category)
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	stories, total, err := h.storyRepo.ListStories(filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_stories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(stories))
	for i := range stories {
		items = append(items, storySummary(&stories[i]))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"stories": items,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (h *Handler) APIGetStory(c *gin.Context) {
	story, ok := h.loadStory(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, storyDetails(story))
}

func (h *Handler) APIUpdateStoryStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	target, err := trends.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, ok := h.loadStory(c)
	if !ok {
		return
	}

	current := trends.Status(story.Status)
	if err := trends.ValidateTransition(current, target); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"from":  story.Status,
			"to":    req.Status,
		})
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = "api"
	}

	stamp := trends.TransitionStamp(current, target)
	if err := h.storyRepo.UpdateStoryStatus(story.ID, string(target), actor, string(stamp)); err != nil {
		if errors.Is(err, database.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		slog.Error("Database error", "operation", "update_story_status", "story", story.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.auditRepo.Append("status_changed", actor, story.ID, map[string]any{
		"from": story.Status,
		"to":   string(target),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"story": gin.H{
			"id":     story.ID,
			"status": string(target),
		},
	})
}

func (h *Handler) APIGenerateDraft(c *gin.Context) {
	var req draftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	story, ok := h.loadStory(c)
	if !ok {
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = "api"
	}

	draft, err := h.generator.Run(c.Request.Context(), story, actor)
	if err != nil {
		if errors.Is(err, trends.ErrInvalidTransition) || errors.Is(err, trends.ErrInvalidStatus) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  err.Error(),
				"status": story.Status,
			})
			return
		}
		slog.Error("Draft generation failed", "story", story.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Draft generation failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"story_id": story.ID,
		"draft": gin.H{
			"title":              draft.Title,
			"excerpt":            draft.Excerpt,
			"meta_title":         draft.MetaTitle,
			"meta_description":   draft.MetaDescription,
			"suggested_tags":     draft.SuggestedTags,
			"suggested_category": draft.SuggestedCategory,
			"recommended_images": len(draft.RecommendedImages),
		},
	})
}

func (h *Handler) APIPublishStory(c *gin.Context) {
	var req publishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	story, ok := h.loadStory(c)
	if !ok {
		return
	}

	if story.Status != string(trends.StatusDraftCreated) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Story must have a draft before publishing",
			"status": story.Status,
		})
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = "api"
	}

	postID, err := h.publisher.CreatePost(c.Request.Context(), story)
	if err != nil {
		slog.Error("Publish failed", "story", story.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to publish story",
			"details": err.Error(),
		})
		return
	}

	if err := h.storyRepo.SetPublishedPost(story.ID, postID, actor); err != nil {
		slog.Error("Database error", "operation", "set_published_post", "story", story.ID, "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Post created but status update failed",
			"post_id": postID,
		})
		return
	}

	h.auditRepo.Append("story_published", actor, story.ID, map[string]any{
		"post_id": postID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"story_id": story.ID,
		"post_id":  postID,
	})
}

func (h *Handler) APITriggerFetch(c *gin.Context) {
	category, err := trends.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req fetchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	actor := req.Actor
	if actor == "" {
		actor = "api"
	}

	opts := trends.FetchOptions{
		AutoGenerateDrafts:  req.AutoGenerateDrafts,
		EngagementThreshold: req.EngagementThreshold,
		Actor:               actor,
	}

	result, err := h.fetcher.Run(c.Request.Context(), category, opts)
	if err != nil {
		slog.Error("Fetch failed", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Fetch failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) APIGetAutoDraftSettings(c *gin.Context) {
	settings, err := h.settingsRepo.GetAutoDraftSettings()
	if err != nil {
		slog.Error("Database error", "operation", "get_autodraft_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *Handler) APIUpdateAutoDraftSettings(c *gin.Context) {
	var settings database.AutoDraftSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	for _, name := range settings.Categories {
		if !trends.IsValidCategory(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + name})
			return
		}
	}

	actor := settings.UpdatedBy
	if actor == "" {
		actor = "api"
	}

	if err := h.settingsRepo.UpdateAutoDraftSettings(settings, actor); err != nil {
		slog.Error("Database error", "operation", "update_autodraft_settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.auditRepo.Append("settings_updated", actor, "autodraft", map[string]any{
		"enabled":              settings.Enabled,
		"engagement_threshold": settings.EngagementThreshold,
		"categories":           settings.Categories,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// loadStory resolves the :id path parameter, writing the error response itself
// when the story cannot be served.
func (h *Handler) loadStory(c *gin.Context) (*database.Story, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing story id parameter"})
		return nil, false
	}

	story, err := h.storyRepo.GetStory(id)
	if err != nil {
		if errors.Is(err, database.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return nil, false
		}
		slog.Error("Database error", "operation", "get_story", "story", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return nil, false
	}

	return story, true
}

func storySummary(story *database.Story) map[string]interface{} {
	return map[string]interface{}{
		"id":                story.ID,
		"title":             story.Title,
		"category":          story.Category,
		"status":            story.Status,
		"primary_link":      story.PrimaryLink,
		"engagement_score":  story.EngagementScore,
		"first_seen_at":     story.FirstSeenAt,
		"fetched_at":        story.FetchedAt,
		"has_draft":         story.DraftTitle != "" && story.DraftBody != "",
		"published_post_id": story.PublishedPostID,
	}
}

func storyDetails(story *database.Story) map[string]interface{} {
	details := map[string]interface{}{
		"id":               story.ID,
		"title":            story.Title,
		"summary":          story.Summary,
		"category":         story.Category,
		"status":           story.Status,
		"source_post_ids":  story.SourcePostIDs,
		"primary_link":     story.PrimaryLink,
		"engagement_score": story.EngagementScore,
		"author_handles":   story.AuthorHandles,
		"media_urls":       story.MediaURLs,
		"first_seen_at":    story.FirstSeenAt,
		"fetched_at":       story.FetchedAt,
		"created_at":       story.CreatedAt,
		"updated_at":       story.UpdatedAt,
	}

	if story.DraftTitle != "" && story.DraftBody != "" {
		details["draft"] = map[string]interface{}{
			"title":              story.DraftTitle,
			"body":               story.DraftBody,
			"excerpt":            story.DraftExcerpt,
			"meta_title":         story.DraftMetaTitle,
			"meta_description":   story.DraftMetaDescription,
			"suggested_tags":     story.SuggestedTags,
			"recommended_images": story.RecommendedImages,
		}
	}

	if story.PublishedPostID != "" {
		details["published_post_id"] = story.PublishedPostID
	}

	lifecycle := map[string]interface{}{}
	if story.ArchivedAt != nil {
		lifecycle["archived_at"] = story.ArchivedAt
		lifecycle["archived_by"] = story.ArchivedBy
	}
	if story.RestoredAt != nil {
		lifecycle["restored_at"] = story.RestoredAt
		lifecycle["restored_by"] = story.RestoredBy
	}
	if story.PublishedAt != nil {
		lifecycle["published_at"] = story.PublishedAt
		lifecycle["published_by"] = story.PublishedBy
	}
	if len(lifecycle) > 0 {
		details["lifecycle"] = lifecycle
	}

	return details
}
