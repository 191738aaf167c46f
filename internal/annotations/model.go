package annotations

import "time"

// Highlight is a user's saved excerpt of chapter text. Matching back into
// the chapter is by exact literal occurrence of Text.
type Highlight struct {
	ID        string    `json:"id"`
	BibleID   string    `json:"bible_id"`
	ChapterID string    `json:"chapter_id"`
	Text      string    `json:"text"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateHighlightRequest struct {
	BibleID   string `json:"bible_id"`
	ChapterID string `json:"chapter_id"`
	Text      string `json:"text"`
	Color     string `json:"color"`
}

type ToggleFavoriteRequest struct {
	BibleID string `json:"bible_id"`
}
