package schema

// StoryImageTable represents the 'story_image' table
type StoryImageTable struct {
	Table       string
	ID          string
	StoryID     string
	PageNumber  string
	ImageURL    string
	ImagePrompt string
	CreatedAt   string
}

// StoryImage is the schema definition for story_image
var StoryImage = StoryImageTable{
	Table:       "story_image",
	ID:          "id",
	StoryID:     "story_id",
	PageNumber:  "page_number",
	ImageURL:    "image_url",
	ImagePrompt: "image_prompt",
	CreatedAt:   "created_at",
}

func (t StoryImageTable) Columns() []string {
	return []string{
		t.ID, t.StoryID, t.PageNumber, t.ImageURL, t.ImagePrompt, t.CreatedAt,
	}
}
