// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import "context"

// # Story Data Access

// Repository defines the data access contract for stories and page images.
type Repository interface {

	/*
		Create persists a completed story aggregate.

		Parameters:
		  - context: context.Context
		  - story: *Story

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, story *Story) error

	/*
		AddPageImage records one successful page illustration for a story.

		Parameters:
		  - context: context.Context
		  - image: *PageImage

		Returns:
		  - error: Storage failure
	*/
	AddPageImage(context context.Context, image *PageImage) error

	/*
		FindByID returns the story with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Story: Hydrated aggregate
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Story, error)

	/*
		ListPageImages returns all page images for a story, ordered by page number.

		Parameters:
		  - context: context.Context
		  - storyID: string (UUID)

		Returns:
		  - []*PageImage: Ordered image metadata
		  - error: Retrieval failure
	*/
	ListPageImages(context context.Context, storyID string) ([]*PageImage, error)

	/*
		List returns stories for the admin gallery, newest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter (language and topic narrowing)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Story: Matched stories
		  - int: Total matching count
		  - error: Storage failure
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Story, int, error)

	/*
		ListSummaryTagsByTopic returns the summary tags of the most recent
		stories written on a topic, used to steer new stories away from
		repeating past elements.

		Parameters:
		  - context: context.Context
		  - topic: string
		  - limit: int (sample size cap)

		Returns:
		  - []string: Non-empty tag blobs, newest first
		  - error: Retrieval failure
	*/
	ListSummaryTagsByTopic(context context.Context, topic string, limit int) ([]string, error)

	/*
		Stats computes the admin dashboard aggregate.

		Parameters:
		  - context: context.Context

		Returns:
		  - *Stats: Totals, per-language counts, recency windows, top topics
		  - error: Storage failure
	*/
	Stats(context context.Context) (*Stats, error)
}
