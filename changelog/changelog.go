// Package changelog renders versioned changelog sections from
// classified commits and maintains the single persisted changelog
// document.
package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakreymyers/myrs-git-flow/commit"
)

// Category is one subsection of a changelog section.
type Category struct {
	Heading string
	Types   []commit.Type // empty for the breaking category
}

// Categories lists every subsection in render priority order. Breaking
// changes come first; build and ci share one subsection.
var Categories = []Category{
	{Heading: "⚠️ BREAKING CHANGES"},
	{Heading: "✨ Features", Types: []commit.Type{commit.TypeFeat}},
	{Heading: "🐛 Bug Fixes", Types: []commit.Type{commit.TypeFix}},
	{Heading: "⚡ Performance Improvements", Types: []commit.Type{commit.TypePerf}},
	{Heading: "♻️ Code Refactoring", Types: []commit.Type{commit.TypeRefactor}},
	{Heading: "⏪ Reverts", Types: []commit.Type{commit.TypeRevert}},
	{Heading: "📚 Documentation", Types: []commit.Type{commit.TypeDocs}},
	{Heading: "🧪 Tests", Types: []commit.Type{commit.TypeTest}},
	{Heading: "🔧 Build System & CI", Types: []commit.Type{commit.TypeBuild, commit.TypeCI}},
	{Heading: "💄 Styling", Types: []commit.Type{commit.TypeStyle}},
	{Heading: "🔨 Maintenance", Types: []commit.Type{commit.TypeChore}},
	{Heading: "📝 Other Changes", Types: []commit.Type{commit.TypeOther}},
}

// RenderSection produces the markdown section for one version:
// a "## [version] - date" heading followed by one subsection per
// non-empty category.
func RenderSection(ver string, date time.Time, c commit.Classified) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s\n", ver, date.Format("2006-01-02"))

	for _, cat := range Categories {
		var commits []commit.Parsed
		if cat.Types == nil {
			commits = c.Breaking
		} else {
			for _, t := range cat.Types {
				commits = append(commits, c.Of(t)...)
			}
		}
		if len(commits) == 0 {
			continue
		}

		b.WriteString("\n### " + cat.Heading + "\n\n")
		for _, p := range commits {
			b.WriteString(formatLine(p))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// formatLine renders one commit entry. The scope, when present, is a
// bold prefix; the short hash trails in brackets.
func formatLine(p commit.Parsed) string {
	var b strings.Builder
	b.WriteString("- ")
	if p.Scope != "" {
		fmt.Fprintf(&b, "**%s**: ", p.Scope)
	}
	b.WriteString(p.Description)
	if p.Hash != "" {
		fmt.Fprintf(&b, " ([%s])", p.Hash)
	}
	return b.String()
}
