// Package categorizer sorts commit messages into digest categories by keyword
// and tidies their wording for display.
package categorizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"dailydigest/internal/models"
)

type rule struct {
	category models.Category
	keywords []string
}

// rules are checked in order and the first category with a matching keyword wins.
var rules = []rule{
	{models.CategoryFix, []string{"fixed", "fix", "resolve", "resolved", "patch", "bugfix"}},
	{models.CategoryFeature, []string{"add", "added", "implement", "implemented", "create", "created", "feature"}},
	{models.CategoryRefactor, []string{"refactor", "refactored", "restructure", "reorganize", "optimize", "optimized"}},
	{models.CategoryImprove, []string{"improve", "improved", "enhance", "update", "updated"}},
	{models.CategoryTest, []string{"test", "tests", "add test", "add tests"}},
	{models.CategoryDocs, []string{"doc", "docs", "documentation", "comment", "readme"}},
}

// prefixes stripped by Enhance, in match order.
var prefixes = []string{"feat: ", "fix: ", "refactor: ", "docs: ", "test: ", "chore: ", "style: "}

// Categorize classifies a commit message. It never returns an empty category.
func Categorize(message string) models.Category {
	lowered := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.category
			}
		}
	}
	return models.CategoryGeneral
}

// Enhance strips one conventional-commit prefix and capitalizes the result.
func Enhance(message string) string {
	for _, p := range prefixes {
		if len(message) >= len(p) && strings.EqualFold(message[:len(p)], p) {
			message = strings.TrimSpace(message[len(p):])
			break
		}
	}

	first, size := utf8.DecodeRuneInString(message)
	if size == 0 || !unicode.IsLower(first) {
		return message
	}
	return string(unicode.ToUpper(first)) + message[size:]
}

// Entry categorizes the commit summary and enhances it for display.
func Entry(commit models.NormalizedCommit) models.CategorizedEntry {
	return models.CategorizedEntry{
		Category:   Categorize(commit.Summary),
		Message:    Enhance(commit.Summary),
		Repository: commit.Repository,
		SHA:        commit.SHA,
	}
}
