package services

import (
	"strings"

	"github.com/cppla/discussions/models"
)

// SortOrder is the created_at direction of the discussion list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSort accepts only asc or desc; anything else keeps prev.
func ParseSort(raw string, prev SortOrder) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	}
	if prev != SortAsc && prev != SortDesc {
		return SortDesc
	}
	return prev
}

const defaultMaxLimit = 500

// Pager implements "load more": every step shows the first N items again with a
// larger N. It is not cursor pagination.
type Pager struct {
	Increment int
	Max       int
}

func (p Pager) increment() int {
	if p.Increment <= 0 {
		return 10
	}
	return p.Increment
}

func (p Pager) max() int {
	if p.Max <= 0 {
		return defaultMaxLimit
	}
	return p.Max
}

// Limit clamps a requested page size to [Increment, Max].
func (p Pager) Limit(requested int) int {
	if requested < p.increment() {
		return p.increment()
	}
	if requested > p.max() {
		return p.max()
	}
	return requested
}

// Next grows the page size by one increment. It returns 0 once current is at
// Max, since no larger page can be requested.
func (p Pager) Next(current int) int {
	current = p.Limit(current)
	if current >= p.max() {
		return 0
	}
	return p.Limit(current + p.increment())
}

// ListQuery combines the browse filters. Empty Search and Category mean no restriction.
type ListQuery struct {
	Search   string
	Category string
	Sort     SortOrder
	Limit    int
}

// DiscussionPage is the first Limit discussions matching a ListQuery.
type DiscussionPage struct {
	Items     []models.Discussion `json:"items"`
	Total     int64               `json:"total"`
	Limit     int                 `json:"limit"`
	HasMore   bool                `json:"has_more"`
	NextLimit int                 `json:"next_limit,omitempty"`
	Sort      SortOrder           `json:"sort"`
}

// PostPage is the first Limit posts of a discussion, oldest first.
type PostPage struct {
	Items     []models.Post `json:"items"`
	Total     int64         `json:"total"`
	Limit     int           `json:"limit"`
	HasMore   bool          `json:"has_more"`
	NextLimit int           `json:"next_limit,omitempty"`
}

const likeEscape = "!"

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped.
func likePattern(search string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(search)) + "%"
}
