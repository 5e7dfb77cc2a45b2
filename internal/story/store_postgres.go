// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fablery/internal/platform/apperr"
	"github.com/taibuivan/fablery/internal/platform/database/schema"
	"github.com/taibuivan/fablery/internal/platform/dberr"
)

// # PostgreSQL Repository

// storyRepository implements the [Repository] interface using pgx.
type storyRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed story store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &storyRepository{pool: pool}
}

// storyColumns is the canonical SELECT column order for story hydration.
func storyColumns() string {
	return strings.Join(schema.Story.Columns(), ", ")
}

// scanStory hydrates a [Story] from a row following the column order of
// [schema.Story.Columns].
func scanStory(row pgx.Row) (*Story, error) {
	var story Story
	err := row.Scan(
		&story.ID,
		&story.Language,
		&story.ChildName,
		&story.ChildAge,
		&story.ParentName,
		&story.ChildAppearance,
		&story.Topic,
		&story.IsCustomTopic,
		&story.ArtStyle,
		&story.Title,
		&story.StoryText,
		&story.SummaryTags,
		&story.Lesson,
		&story.WordCount,
		&story.GenerationTimeMs,
		&story.CoverImageURL,
		&story.CharacterSheetURL,
		&story.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &story, nil
}

/*
Create persists a completed story aggregate.

Parameters:
  - context: context.Context
  - story: *Story (ID must already be set by the caller)

Returns:
  - error: Insert failure
*/
func (repository *storyRepository) Create(context context.Context, story *Story) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17
		)
	`,
		schema.Story.Table,
		schema.Story.ID, schema.Story.Language, schema.Story.ChildName,
		schema.Story.ChildAge, schema.Story.ParentName, schema.Story.ChildAppearance,
		schema.Story.Topic, schema.Story.IsCustomTopic, schema.Story.ArtStyle,
		schema.Story.Title, schema.Story.StoryText, schema.Story.SummaryTags,
		schema.Story.Lesson, schema.Story.WordCount, schema.Story.GenerationTimeMs,
		schema.Story.CoverImageURL, schema.Story.CharacterSheetURL,
	)

	_, err := repository.pool.Exec(context, query,
		story.ID,
		story.Language,
		story.ChildName,
		story.ChildAge,
		story.ParentName,
		story.ChildAppearance,
		story.Topic,
		story.IsCustomTopic,
		story.ArtStyle,
		story.Title,
		story.StoryText,
		story.SummaryTags,
		story.Lesson,
		story.WordCount,
		story.GenerationTimeMs,
		story.CoverImageURL,
		story.CharacterSheetURL,
	)
	if err != nil {
		return dberr.Wrap(err)
	}

	return nil
}

/*
AddPageImage records one successful page illustration.
*/
func (repository *storyRepository) AddPageImage(context context.Context, image *PageImage) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.StoryImage.Table,
		schema.StoryImage.ID, schema.StoryImage.StoryID, schema.StoryImage.PageNumber,
		schema.StoryImage.ImageURL, schema.StoryImage.ImagePrompt,
	)

	_, err := repository.pool.Exec(context, query,
		image.ID,
		image.StoryID,
		image.PageNumber,
		image.ImageURL,
		image.ImagePrompt,
	)
	if err != nil {
		// A unique violation on (story_id, page_number) surfaces as Conflict.
		return dberr.Wrap(err)
	}

	return nil
}

/*
FindByID returns the story with the given ID.

Returns:
  - *Story: The hydrated aggregate
  - error: apperr.NotFound on absent rows
*/
func (repository *storyRepository) FindByID(context context.Context, id string) (*Story, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		storyColumns(), schema.Story.Table, schema.Story.ID)

	story, err := scanStory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("story")
		}
		return nil, fmt.Errorf("postgres: failed to find story by id: %w", err)
	}

	return story, nil
}

/*
ListPageImages returns all page images for a story ordered by page number.
*/
func (repository *storyRepository) ListPageImages(context context.Context, storyID string) ([]*PageImage, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.StoryImage.ID, schema.StoryImage.StoryID, schema.StoryImage.PageNumber,
		schema.StoryImage.ImageURL, schema.StoryImage.ImagePrompt, schema.StoryImage.CreatedAt,
		schema.StoryImage.Table,
		schema.StoryImage.StoryID,
		schema.StoryImage.PageNumber,
	)

	rows, err := repository.pool.Query(context, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list page images: %w", err)
	}
	defer rows.Close()

	var images []*PageImage
	for rows.Next() {
		var image PageImage
		err := rows.Scan(
			&image.ID,
			&image.StoryID,
			&image.PageNumber,
			&image.ImageURL,
			&image.ImagePrompt,
			&image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page image: %w", err)
		}
		images = append(images, &image)
	}

	return images, nil
}

/*
List returns stories for the admin gallery, newest first.

Description: Uses a window function to compute the total matching count
without a separate COUNT round-trip.
*/
func (repository *storyRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Story, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE 1=1
	`, storyColumns(), schema.Story.Table))

	// Optional narrowing filters
	if filter.Language != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Story.Language, argID))
		args = append(args, filter.Language)
		argID++
	}
	if filter.Topic != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Story.Topic, argID))
		args = append(args, filter.Topic)
		argID++
	}
	switch filter.Window {
	case WindowToday:
		queryBuilder.WriteString(fmt.Sprintf(" AND %s >= date_trunc('day', now())", schema.Story.CreatedAt))
	case WindowWeek:
		queryBuilder.WriteString(fmt.Sprintf(" AND %s >= now() - interval '7 days'", schema.Story.CreatedAt))
	case WindowMonth:
		queryBuilder.WriteString(fmt.Sprintf(" AND %s >= now() - interval '30 days'", schema.Story.CreatedAt))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.Story.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []*Story
	var totalCount int

	for rows.Next() {
		var story Story
		err := rows.Scan(
			&story.ID,
			&story.Language,
			&story.ChildName,
			&story.ChildAge,
			&story.ParentName,
			&story.ChildAppearance,
			&story.Topic,
			&story.IsCustomTopic,
			&story.ArtStyle,
			&story.Title,
			&story.StoryText,
			&story.SummaryTags,
			&story.Lesson,
			&story.WordCount,
			&story.GenerationTimeMs,
			&story.CoverImageURL,
			&story.CharacterSheetURL,
			&story.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan story: %w", err)
		}
		stories = append(stories, &story)
	}

	return stories, totalCount, nil
}

/*
ListSummaryTagsByTopic returns the summary tags of the most recent stories
on a topic, skipping empty blobs.
*/
func (repository *storyRepository) ListSummaryTagsByTopic(context context.Context, topic string, limit int) ([]string, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s <> ''
		ORDER BY %s DESC
		LIMIT $2
	`,
		schema.Story.SummaryTags,
		schema.Story.Table,
		schema.Story.Topic,
		schema.Story.SummaryTags,
		schema.Story.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list summary tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan summary tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

/*
Stats computes the admin dashboard aggregate in two round-trips: one
filtered-count pass over the story table and one grouped top-topics query.
*/
func (repository *storyRepository) Stats(context context.Context) (*Stats, error) {

	stats := &Stats{TopTopics: []TopicCount{}}

	countsQuery := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE %s = 'en'),
			COUNT(*) FILTER (WHERE %s = 'uk'),
			COUNT(*) FILTER (WHERE %s >= date_trunc('day', now())),
			COUNT(*) FILTER (WHERE %s >= now() - interval '7 days')
		FROM %s
	`,
		schema.Story.Language,
		schema.Story.Language,
		schema.Story.CreatedAt,
		schema.Story.CreatedAt,
		schema.Story.Table,
	)

	err := repository.pool.QueryRow(context, countsQuery).Scan(
		&stats.Total,
		&stats.English,
		&stats.Ukrainian,
		&stats.Today,
		&stats.ThisWeek,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to compute story counts: %w", err)
	}

	topicsQuery := fmt.Sprintf(`
		SELECT %s, COUNT(*) AS usage_count
		FROM %s
		GROUP BY %s
		ORDER BY usage_count DESC
		LIMIT 3
	`, schema.Story.Topic, schema.Story.Table, schema.Story.Topic)

	rows, err := repository.pool.Query(context, topicsQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to compute top topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry TopicCount
		if err := rows.Scan(&entry.Topic, &entry.Count); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan top topic: %w", err)
		}
		stats.TopTopics = append(stats.TopTopics, entry)
	}

	return stats, nil
}
