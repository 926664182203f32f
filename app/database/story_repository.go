package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type storyRepository struct {
	db *DB
}

func NewStoryRepository(db *DB) StoryRepository {
	return &storyRepository{db: db}
}

const storyColumns = `
	id, title, summary, category, source_post_ids, COALESCE(primary_link, ''),
	engagement_score, author_handles, media_urls, first_seen_at, fetched_at, status,
	COALESCE(draft_title, ''), COALESCE(draft_body, ''), COALESCE(draft_excerpt, ''),
	COALESCE(draft_meta_title, ''), COALESCE(draft_meta_description, ''),
	COALESCE(suggested_tags, '{}'), recommended_images,
	COALESCE(published_post_id, ''),
	archived_at, COALESCE(archived_by, ''),
	restored_at, COALESCE(restored_by, ''),
	published_at, COALESCE(published_by, ''),
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*Story, error) {
	var story Story
	var imagesRaw []byte

	err := row.Scan(
		&story.ID, &story.Title, &story.Summary, &story.Category,
		pq.Array(&story.SourcePostIDs), &story.PrimaryLink,
		&story.EngagementScore, pq.Array(&story.AuthorHandles), pq.Array(&story.MediaURLs),
		&story.FirstSeenAt, &story.FetchedAt, &story.Status,
		&story.DraftTitle, &story.DraftBody, &story.DraftExcerpt,
		&story.DraftMetaTitle, &story.DraftMetaDescription,
		pq.Array(&story.SuggestedTags), &imagesRaw,
		&story.PublishedPostID,
		&story.ArchivedAt, &story.ArchivedBy,
		&story.RestoredAt, &story.RestoredBy,
		&story.PublishedAt, &story.PublishedBy,
		&story.CreatedAt, &story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &story.RecommendedImages); err != nil {
			return nil, fmt.Errorf("failed to decode recommended images: %w", err)
		}
	}

	return &story, nil
}

func (r *storyRepository) CreateStory(story Story) (*Story, error) {
	if story.ID == "" {
		story.ID = uuid.NewString()
	}
	if story.Status == "" {
		story.Status = "new"
	}

	err := r.db.QueryRow(`
		INSERT INTO stories (
			id, title, summary, category, source_post_ids, primary_link,
			engagement_score, author_handles, media_urls, first_seen_at,
			fetched_at, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, story.ID, story.Title, story.Summary, story.Category,
		pq.Array(story.SourcePostIDs), story.PrimaryLink,
		story.EngagementScore, pq.Array(story.AuthorHandles), pq.Array(story.MediaURLs),
		story.FirstSeenAt, story.FetchedAt, story.Status,
	).Scan(&story.CreatedAt, &story.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	return &story, nil
}

func (r *storyRepository) GetStory(id string) (*Story, error) {
	row := r.db.QueryRow(`SELECT`+storyColumns+` FROM stories WHERE id = $1`, id)

	story, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	return story, nil
}

// CheckDuplicate looks for any stored story whose source_post_ids contains
// the given ID. Callers pass only the candidate's first entry; checking all
// entries would change which items dedup, so the first-entry contract stays.
func (r *storyRepository) CheckDuplicate(sourcePostID string) (bool, *string, error) {
	var duplicateID string

	err := r.db.QueryRow(`
		SELECT id FROM stories WHERE $1 = ANY(source_post_ids) LIMIT 1
	`, sourcePostID).Scan(&duplicateID)

	if err == sql.ErrNoRows {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("failed to check duplicate: %w", err)
	}

	return true, &duplicateID, nil
}

func buildStoryWhere(filter StoryFilter) (string, []any) {
	where := ""
	var args []any

	appendCond := func(cond string, value any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		args = append(args, value)
		where += fmt.Sprintf(cond, len(args))
	}

	if filter.Status != "" {
		appendCond("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		appendCond("category = $%d", filter.Category)
	}

	return where, args
}

func (r *storyRepository) ListStories(filter StoryFilter) ([]Story, int, error) {
	where, args := buildStoryWhere(filter)

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM stories`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stories: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	pagedArgs := append(append([]any{}, args...), limit, offset)
	query := fmt.Sprintf(`SELECT%s FROM stories%s ORDER BY fetched_at DESC LIMIT $%d OFFSET $%d`,
		storyColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(query, pagedArgs...)
	if err != nil {
		// The ordered scan can fail on stores without the supporting index;
		// fetch unordered and sort in memory so callers see no difference.
		return r.listStoriesUnordered(where, args, total, limit, offset)
	}
	defer rows.Close()

	stories, err := collectStories(rows)
	if err != nil {
		return nil, 0, err
	}

	return stories, total, nil
}

func (r *storyRepository) listStoriesUnordered(where string, args []any, total, limit, offset int) ([]Story, int, error) {
	rows, err := r.db.Query(`SELECT`+storyColumns+` FROM stories`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	stories, err := collectStories(rows)
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(stories, func(i, j int) bool {
		return stories[i].FetchedAt.After(stories[j].FetchedAt)
	})

	if offset >= len(stories) {
		return []Story{}, total, nil
	}
	stories = stories[offset:]
	if len(stories) > limit {
		stories = stories[:limit]
	}

	return stories, total, nil
}

func collectStories(rows *sql.Rows) ([]Story, error) {
	var stories []Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		stories = append(stories, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating story rows: %w", err)
	}
	return stories, nil
}

func (r *storyRepository) GetStoryStats() (*StoryStats, error) {
	stats := &StoryStats{
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
	}

	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM stories GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status stats: %w", err)
	}

	catRows, err := r.db.Query(`SELECT category, COUNT(*) FROM stories GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var category string
		var count int
		if err := catRows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category stats: %w", err)
		}
		stats.ByCategory[category] = count
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category stats: %w", err)
	}

	return stats, nil
}

// statusUpdateSet builds the SET clause for a status change. The stamp selects
// which actor/timestamp column pair is written alongside the status; actor is
// only bound when the stamp needs it.
func statusUpdateSet(id string, status string, actor string, stamp string) (string, []any) {
	set := `status = $2, updated_at = NOW()`
	args := []any{id, status}

	switch stamp {
	case "archived":
		set += `, archived_at = NOW(), archived_by = $3`
		args = append(args, actor)
	case "restored":
		set += `, restored_at = NOW(), restored_by = $3`
		args = append(args, actor)
	case "published":
		set += `, published_at = NOW(), published_by = $3`
		args = append(args, actor)
	}

	return set, args
}

// UpdateStoryStatus writes the status, updated_at, and the transition stamp
// in a single statement so they are never observed separately.
func (r *storyRepository) UpdateStoryStatus(id string, status string, actor string, stamp string) error {
	set, args := statusUpdateSet(id, status, actor, stamp)

	res, err := r.db.Exec(`UPDATE stories SET `+set+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("failed to update story status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update: %w", err)
	}
	if affected == 0 {
		return ErrStoryNotFound
	}

	return nil
}

// UpdateStoryDraft persists one complete draft. The single UPDATE keeps the
// draft fields and the status move atomic; a partial draft is rejected before
// touching the row.
func (r *storyRepository) UpdateStoryDraft(id string, draft DraftFields) error {
	if draft.Title == "" || draft.Body == "" {
		return ErrDraftIncomplete
	}

	imagesJSON, err := json.Marshal(draft.RecommendedImages)
	if err != nil {
		return fmt.Errorf("failed to encode recommended images: %w", err)
	}

	res, err := r.db.Exec(`
		UPDATE stories SET
			draft_title = $2,
			draft_body = $3,
			draft_excerpt = $4,
			draft_meta_title = $5,
			draft_meta_description = $6,
			suggested_tags = $7,
			recommended_images = $8,
			status = 'draft_created',
			updated_at = NOW()
		WHERE id = $1
	`, id, draft.Title, draft.Body, draft.Excerpt, draft.MetaTitle,
		draft.MetaDescription, pq.Array(draft.Tags), imagesJSON)

	if err != nil {
		return fmt.Errorf("failed to update story draft: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check draft update: %w", err)
	}
	if affected == 0 {
		return ErrStoryNotFound
	}

	return nil
}

func (r *storyRepository) SetPublishedPost(id string, postID string, actor string) error {
	res, err := r.db.Exec(`
		UPDATE stories SET
			published_post_id = $2,
			status = 'published',
			published_at = NOW(),
			published_by = $3,
			updated_at = NOW()
		WHERE id = $1
	`, id, postID, actor)

	if err != nil {
		return fmt.Errorf("failed to record published post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check publish update: %w", err)
	}
	if affected == 0 {
		return ErrStoryNotFound
	}

	return nil
}
