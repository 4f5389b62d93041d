package models

import "fmt"

type SortDirection string

const (
	SortDesc SortDirection = "desc"
	SortAsc  SortDirection = "asc"
)

// FeedFilter selects and orders the feed.
type FeedFilter struct {
	Category string        `json:"category"`
	Sort     SortDirection `json:"sort"`
}

// DefaultFeedFilter shows every category, newest first.
func DefaultFeedFilter() FeedFilter {
	return FeedFilter{Category: CategoryAll, Sort: SortDesc}
}

// Desc reports whether the feed is ordered newest first. An empty Sort is desc.
func (f FeedFilter) Desc() bool {
	return f.Sort != SortAsc
}

// Matches reports whether a list belongs to the filtered feed.
func (f FeedFilter) Matches(l ListSummary) bool {
	return f.Category == "" || f.Category == CategoryAll || f.Category == l.Category
}

// RealtimeFilter returns the change-channel filter for the category,
// empty when every category is shown.
func (f FeedFilter) RealtimeFilter() string {
	if f.Category == "" || f.Category == CategoryAll {
		return ""
	}
	return EqFilter("category", f.Category)
}

// Query builds the table query of the page with the given index.
func (f FeedFilter) Query(pageIndex, pageSize int) TableQuery {
	q := TableQuery{
		OrderBy: "created_at",
		Desc:    f.Desc(),
		Limit:   pageSize,
		Offset:  pageIndex * pageSize,
	}
	if f.Category != "" && f.Category != CategoryAll {
		q.Filter = map[string]string{"category": f.Category}
	}
	return q
}

// FeedPage is one fetched page of the feed.
type FeedPage struct {
	Filter  FeedFilter    `json:"filter"`
	Index   int           `json:"index"`
	Items   []ListSummary `json:"items"`
	HasMore bool          `json:"has_more"`
}

// EqFilter formats an equality filter, e.g. "list_id=eq.42".
func EqFilter(column, value string) string {
	return fmt.Sprintf("%s=eq.%s", column, value)
}
