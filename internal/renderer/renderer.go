// Package renderer builds the daily digest of a developer's commits and
// renders it as an HTML document and an equivalent plain text body.
package renderer

import (
	"time"

	"dailydigest/internal/categorizer"
	"dailydigest/internal/models"
)

// DateLayout is how report dates are printed in both bodies and mail subjects.
const DateLayout = "02 Jan 2006"

var labels = map[models.Category]string{
	models.CategoryFix:      "Bug Fixes",
	models.CategoryFeature:  "Features",
	models.CategoryRefactor: "Refactoring",
	models.CategoryImprove:  "Improvements",
	models.CategoryTest:     "Tests",
	models.CategoryDocs:     "Documentation",
	models.CategoryGeneral:  "Other Updates",
}

var icons = map[models.Category]string{
	models.CategoryFix:      "🐛",
	models.CategoryFeature:  "✨",
	models.CategoryRefactor: "♻️",
	models.CategoryImprove:  "⚡",
	models.CategoryTest:     "🧪",
	models.CategoryDocs:     "📚",
	models.CategoryGeneral:  "📝",
}

func Label(c models.Category) string {
	return labels[c]
}

// Render categorizes commits in arrival order and renders both bodies from
// the same entries.
func Render(commits []models.NormalizedCommit, developer string, date time.Time) models.DailyDigest {
	digest := models.DailyDigest{
		Developer:    developer,
		Date:         date,
		Entries:      make([]models.CategorizedEntry, 0, len(commits)),
		Repositories: []string{},
		TotalCommits: len(commits),
	}

	seen := make(map[string]bool)
	for _, c := range commits {
		if !seen[c.Repository] {
			seen[c.Repository] = true
			digest.Repositories = append(digest.Repositories, c.Repository)
		}
		digest.Entries = append(digest.Entries, categorizer.Entry(c))
	}

	sections := digest.Sections()
	digest.HTML = renderHTML(digest, sections)
	digest.Text = renderText(digest, sections)

	return digest
}
