package services

import "sort"

// Category is a configured label discussions can be filed under.
type Category struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Categories is the read-only category registry. The zero value is an empty registry.
type Categories struct {
	bySlug map[string]Category
}

func NewCategories(list ...Category) Categories {
	m := make(map[string]Category, len(list))
	for _, c := range list {
		if c.Slug == "" {
			continue
		}
		m[c.Slug] = c
	}
	return Categories{bySlug: m}
}

func (c Categories) Exists(slug string) bool {
	_, ok := c.bySlug[slug]
	return ok
}

// Lookup tolerates slugs that were removed from configuration after use.
func (c Categories) Lookup(slug *string) (Category, bool) {
	if slug == nil {
		return Category{}, false
	}
	cat, ok := c.bySlug[*slug]
	return cat, ok
}

// All returns the registry sorted by slug.
func (c Categories) All() []Category {
	out := make([]Category, 0, len(c.bySlug))
	for _, cat := range c.bySlug {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
