package schema

// StoryTable represents the 'story' table
type StoryTable struct {
	Table             string
	ID                string
	Language          string
	ChildName         string
	ChildAge          string
	ParentName        string
	ChildAppearance   string
	Topic             string
	IsCustomTopic     string
	ArtStyle          string
	Title             string
	StoryText         string
	SummaryTags       string
	Lesson            string
	WordCount         string
	GenerationTimeMs  string
	CoverImageURL     string
	CharacterSheetURL string
	CreatedAt         string
}

// Story is the schema definition for story
var Story = StoryTable{
	Table:             "story",
	ID:                "id",
	Language:          "language",
	ChildName:         "child_name",
	ChildAge:          "child_age",
	ParentName:        "parent_name",
	ChildAppearance:   "child_appearance",
	Topic:             "topic",
	IsCustomTopic:     "is_custom_topic",
	ArtStyle:          "art_style",
	Title:             "title",
	StoryText:         "story_text",
	SummaryTags:       "summary_tags",
	Lesson:            "lesson",
	WordCount:         "word_count",
	GenerationTimeMs:  "generation_time_ms",
	CoverImageURL:     "cover_image_url",
	CharacterSheetURL: "character_sheet_url",
	CreatedAt:         "created_at",
}

func (t StoryTable) Columns() []string {
	return []string{
		t.ID, t.Language, t.ChildName, t.ChildAge, t.ParentName, t.ChildAppearance,
		t.Topic, t.IsCustomTopic, t.ArtStyle, t.Title, t.StoryText, t.SummaryTags,
		t.Lesson, t.WordCount, t.GenerationTimeMs, t.CoverImageURL, t.CharacterSheetURL,
		t.CreatedAt,
	}
}
