package models

import "time"

// Category values of a list. CategoryAll is a filter value only.
const (
	CategoryAll    = "all"
	CategoryMovie  = "movie"
	CategorySeries = "series"
	CategoryBook   = "book"
	CategoryGame   = "game"
	CategoryPerson = "person"
	CategoryPlace  = "place"
	CategoryMusic  = "music"
)

// Categories lists every filter value in display order.
var Categories = []string{
	CategoryAll, CategoryMovie, CategorySeries, CategoryBook,
	CategoryGame, CategoryPerson, CategoryPlace, CategoryMusic,
}

// ListSummary is a feed entry: a user-curated list with its counters
// and a short preview of its items.
type ListSummary struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	OwnerID      int64         `json:"owner_id"`
	OwnerName    string        `json:"owner_name"`
	Category     string        `json:"category"`
	LikeCount    int           `json:"like_count"`
	CommentCount int           `json:"comment_count"`
	ItemCount    int           `json:"item_count"`
	LikedByMe    bool          `json:"liked_by_me"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Preview      []PreviewItem `json:"preview,omitempty"`
}

// PreviewItem is one of the first items of a list shown in the feed card.
type PreviewItem struct {
	Title       string `json:"title"`
	ImageURL    string `json:"image_url,omitempty"`
	Year        *int   `json:"year,omitempty"`
	ContentType string `json:"content_type"`
}

// MaxPreviewItems caps ListSummary.Preview.
const MaxPreviewItems = 4

func (l ListSummary) EntityID() string { return l.ID }

// Version is UpdatedAt, falling back to CreatedAt for rows never updated.
func (l ListSummary) Version() time.Time {
	if l.UpdatedAt.IsZero() {
		return l.CreatedAt
	}
	return l.UpdatedAt
}

func (l ListSummary) TableName() string {
	return "lists"
}

// NewList is the payload of POST /api/lists.
type NewList struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Items       []PreviewItem `json:"items"`
}
