package renderer

import (
	"fmt"
	"html"
	"strings"

	"dailydigest/internal/models"
)

const documentStyle = `<style>
		body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; line-height: 1.6; max-width: 600px; margin: 0 auto; padding: 20px; color: #333; }
		h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
		h2 { color: #34495e; margin-top: 20px; margin-bottom: 10px; font-size: 16px; }
		ul { margin: 10px 0; padding-left: 20px; }
		li { margin: 5px 0; }
		.category { margin: 15px 0; }
		.stats { background: #ecf0f1; padding: 10px; border-radius: 5px; margin: 15px 0; }
		.footer { margin-top: 30px; padding-top: 10px; border-top: 1px solid #ecf0f1; font-size: 12px; color: #7f8c8d; }
	</style>`

func renderHTML(d models.DailyDigest, sections []models.DigestSection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Daily Work Report</title>
	%s
</head>
<body>
	<h1>📊 Daily Work Report</h1>
	<p><strong>%s</strong> • %s</p>
`, documentStyle, html.EscapeString(d.Developer), d.Date.Format(DateLayout)))

	for _, s := range sections {
		writeHTMLSection(&sb, s)
	}

	repos := make([]string, len(d.Repositories))
	for i, r := range d.Repositories {
		repos[i] = html.EscapeString(r)
	}

	sb.WriteString(fmt.Sprintf(`	<div class="stats">
		<strong>Summary:</strong><br>
		Total Commits: %d<br>
		Repositories: %s
	</div>
	<div class="footer">
		<p>Automated daily report</p>
	</div>
</body>
</html>
`, d.TotalCommits, strings.Join(repos, ", ")))

	return sb.String()
}

func writeHTMLSection(sb *strings.Builder, s models.DigestSection) {
	sb.WriteString(fmt.Sprintf(`	<div class="category">
		<h2>%s %s</h2>
		<ul>
`, icons[s.Category], Label(s.Category)))

	for _, msg := range s.Entries {
		sb.WriteString("\t\t\t<li>")
		sb.WriteString(html.EscapeString(msg))
		sb.WriteString("</li>\n")
	}

	sb.WriteString("\t\t</ul>\n\t</div>\n")
}
