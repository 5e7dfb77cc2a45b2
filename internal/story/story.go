// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package story owns the persisted book aggregate and its read paths: the
public viewer endpoint and the admin gallery queries.

# Architecture

A [Story] row is written exactly once, at the end of a successful
generation run, together with one [PageImage] row per page whose
illustration succeeded. Nothing mutates a story afterwards, which keeps
the viewer a pure read model.
*/
package story

import "time"

// Story is the persisted book aggregate.
type Story struct {
	ID                string    `json:"id"`
	Language          string    `json:"language"`
	ChildName         string    `json:"child_name"`
	ChildAge          int       `json:"child_age"`
	ParentName        *string   `json:"parent_name,omitempty"`
	ChildAppearance   *string   `json:"child_appearance,omitempty"`
	Topic             string    `json:"topic"`
	IsCustomTopic     bool      `json:"is_custom_topic"`
	ArtStyle          string    `json:"art_style"`
	Title             string    `json:"title"`
	StoryText         string    `json:"story_text"`
	SummaryTags       string    `json:"summary_tags"`
	Lesson            string    `json:"lesson"`
	WordCount         int       `json:"word_count"`
	GenerationTimeMs  int64     `json:"generation_time_ms"`
	CoverImageURL     string    `json:"cover_image_url"`
	CharacterSheetURL string    `json:"character_sheet_url"`
	CreatedAt         time.Time `json:"created_at"`
}

// PageImage is one successfully generated page illustration.
type PageImage struct {
	ID          string    `json:"id"`
	StoryID     string    `json:"story_id"`
	PageNumber  int       `json:"page_number"`
	ImageURL    string    `json:"image_url"`
	ImagePrompt string    `json:"image_prompt"`
	CreatedAt   time.Time `json:"created_at"`
}

// Date windows accepted by [Filter.Window].
const (
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
)

// Filter narrows admin gallery listings.
type Filter struct {
	Language string
	Topic    string

	// Window restricts results to a recent creation window
	// ("today", "week", or "month"). Empty means all time.
	Window string
}

// TopicCount is one entry of the most-used topics ranking.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	Total     int          `json:"total"`
	English   int          `json:"english"`
	Ukrainian int          `json:"ukrainian"`
	Today     int          `json:"today"`
	ThisWeek  int          `json:"this_week"`
	TopTopics []TopicCount `json:"top_topics"`
}

// BookPage is one assembled viewer page: prose plus its illustration URL
// (empty when that page's image generation failed).
type BookPage struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	ImageURL   string `json:"image_url"`
}

// Book is the full viewer payload for a single story.
type Book struct {
	Story *Story     `json:"story"`
	Pages []BookPage `json:"pages"`
}
