// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fablery/internal/generation"
	"github.com/taibuivan/fablery/internal/platform/apperr"
	"github.com/taibuivan/fablery/internal/platform/media"
	"github.com/taibuivan/fablery/internal/prompt"
	"github.com/taibuivan/fablery/internal/story"
)

// memoryRepository is an in-memory [story.Repository] for service tests.
type memoryRepository struct {
	stories map[string]*story.Story
	images  map[string][]*story.PageImage
	tags    map[string][]string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		stories: map[string]*story.Story{},
		images:  map[string][]*story.PageImage{},
		tags:    map[string][]string{},
	}
}

func (repo *memoryRepository) Create(_ context.Context, record *story.Story) error {
	repo.stories[record.ID] = record
	return nil
}

func (repo *memoryRepository) AddPageImage(_ context.Context, image *story.PageImage) error {
	// Mirrors the unique constraint on (story_id, page_number).
	for _, existing := range repo.images[image.StoryID] {
		if existing.PageNumber == image.PageNumber {
			return apperr.Conflict("Resource already exists")
		}
	}
	repo.images[image.StoryID] = append(repo.images[image.StoryID], image)
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*story.Story, error) {
	record, found := repo.stories[id]
	if !found {
		return nil, apperr.NotFound("story")
	}
	return record, nil
}

func (repo *memoryRepository) ListPageImages(_ context.Context, storyID string) ([]*story.PageImage, error) {
	return repo.images[storyID], nil
}

func (repo *memoryRepository) List(_ context.Context, _ story.Filter, _, _ int) ([]*story.Story, int, error) {
	var all []*story.Story
	for _, record := range repo.stories {
		all = append(all, record)
	}
	return all, len(all), nil
}

func (repo *memoryRepository) ListSummaryTagsByTopic(_ context.Context, topic string, limit int) ([]string, error) {
	tags := repo.tags[topic]
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (repo *memoryRepository) Stats(_ context.Context) (*story.Stats, error) {
	return &story.Stats{Total: len(repo.stories)}, nil
}

// storyJSON builds a well-formed model reply with the given scene count.
func storyJSON(t *testing.T, sceneCount int) string {
	t.Helper()

	scenes := make([]map[string]any, 0, sceneCount)
	for i := 1; i <= sceneCount; i++ {
		scenes = append(scenes, map[string]any{
			"pageNumber":        i,
			"text":              fmt.Sprintf("Page %d has five words.", i),
			"sceneDescription":  fmt.Sprintf("Scene %d brief", i),
			"charactersInScene": []string{"Emma"},
		})
	}

	payload, err := json.Marshal(map[string]any{
		"title":       "Emma and the Garden",
		"storyWorld":  map[string]string{"setting": "A giant garden", "visualStyle": "Sunlit greens"},
		"characters":  []map[string]string{{"name": "Emma", "role": "hero", "appearance": "curly hair, green overalls"}},
		"scenes":      scenes,
		"lesson":      "Healthy eating",
		"summaryTags": "giant garden\ntalking carrot",
	})
	require.NoError(t, err)

	return "Sure! Here is the story:\n" + string(payload)
}

func newTestService(t *testing.T, gateway *stubGateway, repo *memoryRepository) *generation.Service {
	t.Helper()

	store, err := media.NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	logger := quietLogger()
	pipeline := generation.NewPipeline(gateway, store, logger)
	storyService := story.NewService(repo, nil, logger)

	return generation.NewService(gateway, pipeline, repo, storyService, logger)
}

func validRequest() generation.Request {
	return generation.Request{
		ChildName: "Emma",
		ChildAge:  6,
		Topic:     "vegetables",
		ArtStyle:  "cartoon",
		Language:  prompt.LocaleEnglish,
	}
}

/*
TestService_Generate_FullRun exercises the complete happy path: story text,
ten illustrated pages, persistence, and the response shape.
*/
func TestService_Generate_FullRun(t *testing.T) {
	repo := newMemoryRepository()
	gateway := &stubGateway{}
	service := newTestService(t, gateway, repo)

	gateway.textResponse = storyJSON(t, 10)

	result, err := service.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	// Response shape
	assert.Equal(t, "Emma and the Garden", result.Title)
	assert.Equal(t, "Healthy eating", result.Lesson)
	assert.NotEmpty(t, result.CoverImageURL)
	require.Len(t, result.Pages, 10)
	for i, page := range result.Pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.NotEmpty(t, page.ImageURL)
	}

	// Persistence
	record, err := repo.FindByID(context.Background(), result.StoryID)
	require.NoError(t, err)
	assert.Equal(t, "en", record.Language)
	assert.False(t, record.IsCustomTopic)
	assert.Equal(t, "giant garden\ntalking carrot", record.SummaryTags)
	assert.Equal(t, 50, record.WordCount) // 10 scenes of five words each
	assert.NotEmpty(t, record.CoverImageURL)
	assert.NotEmpty(t, record.CharacterSheetURL)

	images, err := repo.ListPageImages(context.Background(), result.StoryID)
	require.NoError(t, err)
	assert.Len(t, images, 10)
}

/*
TestService_Generate_PageFailureSkipsRow checks that a failed page still
appears in the response (empty URL) but gets no persisted image row.
*/
func TestService_Generate_PageFailureSkipsRow(t *testing.T) {
	repo := newMemoryRepository()
	// Calls: 1 sheet, 2 cover, then pages; fail page 3 (call 5).
	gateway := &stubGateway{failImageCalls: map[int]bool{5: true}}
	service := newTestService(t, gateway, repo)

	gateway.textResponse = storyJSON(t, 10)

	result, err := service.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, result.Pages, 10)
	assert.Empty(t, result.Pages[2].ImageURL)
	assert.NotEmpty(t, result.Pages[3].ImageURL)

	images, err := repo.ListPageImages(context.Background(), result.StoryID)
	require.NoError(t, err)
	assert.Len(t, images, 9)
	for _, image := range images {
		assert.NotEqual(t, 3, image.PageNumber)
	}
}

/*
TestService_Generate_DuplicatePageNumbersInReply checks that a reply whose
scenes repeat a page number still produces one image row per page instead
of tripping the (story_id, page_number) unique constraint mid-persist.
*/
func TestService_Generate_DuplicatePageNumbersInReply(t *testing.T) {
	repo := newMemoryRepository()
	gateway := &stubGateway{}
	service := newTestService(t, gateway, repo)

	gateway.textResponse = `Here you go: {
		"title": "Emma and the Garden",
		"scenes": [
			{"pageNumber": 1, "text": "One.", "sceneDescription": "a"},
			{"pageNumber": 2, "text": "Two.", "sceneDescription": "b"},
			{"pageNumber": 2, "text": "Three.", "sceneDescription": "c"}
		]
	}`

	result, err := service.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), result.StoryID)
	require.NoError(t, err)

	images, err := repo.ListPageImages(context.Background(), result.StoryID)
	require.NoError(t, err)
	require.Len(t, images, 3)

	pages := make([]int, 0, len(images))
	for _, image := range images {
		pages = append(pages, image.PageNumber)
	}
	assert.ElementsMatch(t, []int{1, 2, 3}, pages)
}

/*
TestService_Generate_CustomTopic verifies custom-topic handling: the topic
text becomes the lesson and the record is flagged accordingly.
*/
func TestService_Generate_CustomTopic(t *testing.T) {
	repo := newMemoryRepository()
	gateway := &stubGateway{}
	service := newTestService(t, gateway, repo)

	gateway.textResponse = storyJSON(t, 2)

	request := validRequest()
	request.Topic = "a hamster who dreams of space travel"

	result, err := service.Generate(context.Background(), request)
	require.NoError(t, err)

	record, err := repo.FindByID(context.Background(), result.StoryID)
	require.NoError(t, err)
	assert.True(t, record.IsCustomTopic)

	// A custom topic carries its own text as the lesson.
	assert.Equal(t, request.Topic, record.Lesson)
	assert.Equal(t, request.Topic, result.Lesson)
}

/*
TestService_Generate_TextFailureIsFatal checks that a text-generation error
aborts the run with GENERATION_FAILED and persists nothing.
*/
func TestService_Generate_TextFailureIsFatal(t *testing.T) {
	repo := newMemoryRepository()
	gateway := &stubGateway{textErr: errors.New("upstream unavailable")}
	service := newTestService(t, gateway, repo)

	_, err := service.Generate(context.Background(), validRequest())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "GENERATION_FAILED", ae.Code)
	assert.Empty(t, repo.stories)
	assert.Empty(t, gateway.imageCalls)
}

/*
TestService_Generate_UnparseableReplyIsFatal checks that a reply without
JSON aborts before any image call.
*/
func TestService_Generate_UnparseableReplyIsFatal(t *testing.T) {
	repo := newMemoryRepository()
	gateway := &stubGateway{textResponse: "I'm sorry, I can't do that."}
	service := newTestService(t, gateway, repo)

	_, err := service.Generate(context.Background(), validRequest())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "GENERATION_FAILED", ae.Code)
	assert.Empty(t, gateway.imageCalls)
}

/*
TestService_Generate_Validation rejects out-of-range personalization input
before any model call.
*/
func TestService_Generate_Validation(t *testing.T) {
	repo := newMemoryRepository()
	gateway := &stubGateway{}
	service := newTestService(t, gateway, repo)

	request := validRequest()
	request.ChildName = ""
	request.ChildAge = 42
	request.Language = "fr"

	_, err := service.Generate(context.Background(), request)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 3)
	assert.Empty(t, gateway.imageCalls)
}

/*
TestService_Generate_UniquenessTagsInPrompt checks that previously stored
summary tags reach the story prompt, and that the placeholder is used when
none exist yet.
*/
func TestService_Generate_UniquenessTagsInPrompt(t *testing.T) {
	repo := newMemoryRepository()
	repo.tags["vegetables"] = []string{"giant garden\ntalking carrot", "moonlit greenhouse"}

	gateway := &stubGateway{}
	service := newTestService(t, gateway, repo)

	gateway.textResponse = storyJSON(t, 1)

	_, err := service.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, gateway.textPrompts, 1)
	assert.Contains(t, gateway.textPrompts[0], "talking carrot")
	assert.Contains(t, gateway.textPrompts[0], "moonlit greenhouse")
	assert.NotContains(t, gateway.textPrompts[0], "{existingTags}")
	assert.NotContains(t, gateway.textPrompts[0], "None yet - be creative!")

	// Fresh topic: no tags stored yet.
	freshGateway := &stubGateway{textResponse: storyJSON(t, 1)}
	freshService := newTestService(t, freshGateway, newMemoryRepository())

	_, err = freshService.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, freshGateway.textPrompts, 1)
	assert.Contains(t, freshGateway.textPrompts[0], "None yet - be creative!")
}
