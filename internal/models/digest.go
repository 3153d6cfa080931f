package models

import "time"

type Category string

const (
	CategoryFix      Category = "fix"
	CategoryFeature  Category = "feature"
	CategoryRefactor Category = "refactor"
	CategoryImprove  Category = "improve"
	CategoryTest     Category = "test"
	CategoryDocs     Category = "docs"
	CategoryGeneral  Category = "general"
)

// Categories is the fixed classification and display order.
var Categories = []Category{
	CategoryFix,
	CategoryFeature,
	CategoryRefactor,
	CategoryImprove,
	CategoryTest,
	CategoryDocs,
	CategoryGeneral,
}

// CategorizedEntry is one enhanced commit message with its category.
type CategorizedEntry struct {
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Repository string   `json:"repository"`
	SHA        string   `json:"sha"`
}

// DigestSection is the non-empty slice of a digest for one category.
type DigestSection struct {
	Category Category `json:"category"`
	Entries  []string `json:"entries"`
}

// DailyDigest aggregates one developer's commits for one calendar day.
type DailyDigest struct {
	Developer    string             `json:"developer"`
	Date         time.Time          `json:"date"`
	Entries      []CategorizedEntry `json:"entries"`
	Repositories []string           `json:"repositories"`
	TotalCommits int                `json:"totalCommits"`
	HTML         string             `json:"-"`
	Text         string             `json:"-"`
}

// Messages returns the enhanced messages of one category in arrival order.
func (d DailyDigest) Messages(category Category) []string {
	var out []string
	for _, e := range d.Entries {
		if e.Category == category {
			out = append(out, e.Message)
		}
	}
	return out
}

// Sections returns the non-empty categories in display order.
func (d DailyDigest) Sections() []DigestSection {
	var sections []DigestSection
	for _, c := range Categories {
		if msgs := d.Messages(c); len(msgs) > 0 {
			sections = append(sections, DigestSection{Category: c, Entries: msgs})
		}
	}
	return sections
}
