package renderer

import (
	"fmt"
	"strings"

	"dailydigest/internal/models"
)

var (
	rule      = strings.Repeat("=", 60)
	underline = strings.Repeat("-", 40)
)

func renderText(d models.DailyDigest, sections []models.DigestSection) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "DAILY WORK REPORT — %s\n", d.Date.Format(DateLayout))
	fmt.Fprintf(&sb, "Developer: %s\n", d.Developer)
	sb.WriteString(rule + "\n")

	for _, s := range sections {
		fmt.Fprintf(&sb, "\n%s %s\n", icons[s.Category], strings.ToUpper(Label(s.Category)))
		sb.WriteString(underline + "\n")
		for _, msg := range s.Entries {
			fmt.Fprintf(&sb, "• %s\n", msg)
		}
	}

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("SUMMARY\n")
	fmt.Fprintf(&sb, "Total Commits: %d\n", d.TotalCommits)
	fmt.Fprintf(&sb, "Repositories: %s\n", strings.Join(d.Repositories, ", "))

	return sb.String()
}
