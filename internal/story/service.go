// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/fablery/internal/platform/constants"
)

// # Service Layer

// Service orchestrates the read paths over persisted stories.
type Service struct {
	storyRepo Repository
	tagCache  *TagCache
	logger    *slog.Logger
}

// NewService constructs a new [Service]. The tag cache may be nil, in which
// case uniqueness-tag reads always go to the repository.
func NewService(storyRepo Repository, tagCache *TagCache, logger *slog.Logger) *Service {
	return &Service{
		storyRepo: storyRepo,
		tagCache:  tagCache,
		logger:    logger,
	}
}

// # Viewer Operations

/*
GetBook assembles the full viewer payload for a story.

Description: The persisted story text is the "\n\n"-joined page prose, so
splitting on blank lines restores the page sequence. Page illustrations
are joined by page number; pages whose image generation failed render
with an empty URL.

Parameters:
  - context: context.Context
  - id: string (Story UUID)

Returns:
  - *Book: Story plus ordered, illustrated pages
  - error: ErrNotFound if the story does not exist
*/
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	persisted, err := service.storyRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	images, err := service.storyRepo.ListPageImages(context, id)
	if err != nil {
		return nil, err
	}

	imagesByPage := make(map[int]string, len(images))
	for _, image := range images {
		imagesByPage[image.PageNumber] = image.ImageURL
	}

	texts := strings.Split(persisted.StoryText, "\n\n")
	pages := make([]BookPage, 0, len(texts))
	for index, text := range texts {
		pageNumber := index + 1
		pages = append(pages, BookPage{
			PageNumber: pageNumber,
			Text:       text,
			ImageURL:   imagesByPage[pageNumber],
		})
	}

	return &Book{Story: persisted, Pages: pages}, nil
}

// # Generation Support

/*
UniquenessTags returns the recent summary-tag sample for a topic,
preferring the Redis cache over PostgreSQL.

Parameters:
  - context: context.Context
  - topic: string

Returns:
  - []string: Up to [constants.UniquenessTagSampleSize] tag blobs
  - error: Storage failure
*/
func (service *Service) UniquenessTags(context context.Context, topic string) ([]string, error) {
	if service.tagCache != nil {
		tags, hit, err := service.tagCache.Get(context, topic)
		if err != nil {
			service.logger.Warn("tag_cache_read_failed",
				slog.String("topic", topic),
				slog.Any("error", err),
			)
		} else if hit {
			return tags, nil
		}
	}

	tags, err := service.storyRepo.ListSummaryTagsByTopic(context, topic, constants.UniquenessTagSampleSize)
	if err != nil {
		return nil, err
	}

	if service.tagCache != nil {
		if err := service.tagCache.Set(context, topic, tags); err != nil {
			service.logger.Warn("tag_cache_write_failed",
				slog.String("topic", topic),
				slog.Any("error", err),
			)
		}
	}

	return tags, nil
}

/*
InvalidateTags drops the cached tag sample for a topic after a new story
was persisted. Best-effort: cache failures are logged, not returned.
*/
func (service *Service) InvalidateTags(context context.Context, topic string) {
	if service.tagCache == nil {
		return
	}
	if err := service.tagCache.Invalidate(context, topic); err != nil {
		service.logger.Warn("tag_cache_invalidate_failed",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}

// # Admin Operations

/*
ListStories returns the admin gallery page for the given filter.
*/
func (service *Service) ListStories(context context.Context, filter Filter, limit, offset int) ([]*Story, int, error) {
	return service.storyRepo.List(context, filter, limit, offset)
}

/*
GetStats returns the admin dashboard aggregate.
*/
func (service *Service) GetStats(context context.Context) (*Stats, error) {
	return service.storyRepo.Stats(context)
}
