package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/jakreymyers/myrs-git-flow/commit"
)

var renderDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func classified(records ...commit.Record) commit.Classified {
	return commit.ClassifyRecords(records)
}

func TestRenderSection(t *testing.T) {
	c := classified(
		commit.Record{Hash: "aaaaaaa1111", Subject: "feat(auth): add login"},
		commit.Record{Hash: "bbbbbbb2222", Subject: "fix: handle empty input"},
		commit.Record{Hash: "ccccccc3333", Subject: "feat!: drop v1 endpoints"},
		commit.Record{Hash: "ddddddd4444", Subject: "chore: tidy imports"},
	)

	out := RenderSection("v2.0.0", renderDate, c)

	if !strings.HasPrefix(out, "## [v2.0.0] - 2026-03-14\n") {
		t.Fatalf("missing heading, got:\n%s", out)
	}
	for _, want := range []string{
		"### ⚠️ BREAKING CHANGES",
		"### ✨ Features",
		"### 🐛 Bug Fixes",
		"### 🔨 Maintenance",
		"- **auth**: add login ([aaaaaaa])",
		"- handle empty input ([bbbbbbb])",
		"- drop v1 endpoints ([ccccccc])",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("section missing %q:\n%s", want, out)
		}
	}

	// Breaking before features, features before fixes.
	breaking := strings.Index(out, "BREAKING CHANGES")
	features := strings.Index(out, "Features")
	fixes := strings.Index(out, "Bug Fixes")
	if !(breaking < features && features < fixes) {
		t.Errorf("category order wrong: breaking=%d features=%d fixes=%d", breaking, features, fixes)
	}

	if strings.Contains(out, "Performance") {
		t.Error("empty category rendered")
	}
}

func TestRenderSectionEmptyCategoriesOmitted(t *testing.T) {
	c := classified(commit.Record{Hash: "aaaaaaa", Subject: "docs: update readme"})
	out := RenderSection("v1.0.1", renderDate, c)
	if strings.Count(out, "### ") != 1 {
		t.Errorf("want exactly one subsection, got:\n%s", out)
	}
}

func yes(string) (bool, error) { return true, nil }
func no(string) (bool, error)  { return false, nil }

func TestMergeCreatesDocument(t *testing.T) {
	section := RenderSection("v1.0.0", renderDate, classified(
		commit.Record{Hash: "aaaaaaa", Subject: "feat: initial release"},
	))

	doc, err := Merge("", section, "v1.0.0", yes)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !strings.HasPrefix(doc, DefaultTitle+"\n") {
		t.Errorf("missing title:\n%s", doc)
	}
	if !strings.Contains(doc, "Keep a Changelog") {
		t.Errorf("missing preamble:\n%s", doc)
	}
	if !HasVersion(doc, "v1.0.0") {
		t.Errorf("missing section:\n%s", doc)
	}
}

func TestMergeInsertsNewestFirst(t *testing.T) {
	first := RenderSection("v1.0.0", renderDate, classified(
		commit.Record{Hash: "aaaaaaa", Subject: "feat: initial release"},
	))
	doc, err := Merge("", first, "v1.0.0", yes)
	if err != nil {
		t.Fatalf("Merge v1.0.0: %v", err)
	}

	second := RenderSection("v1.1.0", renderDate, classified(
		commit.Record{Hash: "bbbbbbb", Subject: "feat: add export"},
	))
	doc, err = Merge(doc, second, "v1.1.0", yes)
	if err != nil {
		t.Fatalf("Merge v1.1.0: %v", err)
	}

	i110 := strings.Index(doc, "## [v1.1.0]")
	i100 := strings.Index(doc, "## [v1.0.0]")
	if i110 == -1 || i100 == -1 || i110 > i100 {
		t.Errorf("sections not newest-first (v1.1.0 at %d, v1.0.0 at %d):\n%s", i110, i100, doc)
	}
}

func TestMergeDeclinedLeavesDocumentUnchanged(t *testing.T) {
	section := RenderSection("v1.0.0", renderDate, classified(
		commit.Record{Hash: "aaaaaaa", Subject: "feat: initial release"},
	))
	doc, err := Merge("", section, "v1.0.0", yes)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	again, err := Merge(doc, section, "v1.0.0", no)
	if err != ErrDeclined {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
	if again != doc {
		t.Error("declined merge modified the document")
	}
}

func TestMergeConfirmedReplacesExactlyOneSection(t *testing.T) {
	old := RenderSection("v1.1.0", renderDate, classified(
		commit.Record{Hash: "aaaaaaa", Subject: "feat: old entry"},
	))
	keep := RenderSection("v1.0.0", renderDate, classified(
		commit.Record{Hash: "bbbbbbb", Subject: "feat: kept entry"},
	))
	doc, _ := Merge("", keep, "v1.0.0", yes)
	doc, _ = Merge(doc, old, "v1.1.0", yes)

	replacement := RenderSection("v1.1.0", renderDate, classified(
		commit.Record{Hash: "ccccccc", Subject: "feat: new entry"},
	))
	doc, err := Merge(doc, replacement, "v1.1.0", yes)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if strings.Contains(doc, "old entry") {
		t.Errorf("old section survived:\n%s", doc)
	}
	if !strings.Contains(doc, "new entry") {
		t.Errorf("replacement missing:\n%s", doc)
	}
	if !strings.Contains(doc, "kept entry") {
		t.Errorf("unrelated section lost:\n%s", doc)
	}
	if strings.Count(doc, "## [v1.1.0]") != 1 {
		t.Errorf("duplicate sections:\n%s", doc)
	}
}

func TestExtractSection(t *testing.T) {
	s1 := RenderSection("v1.1.0", renderDate, classified(
		commit.Record{Hash: "aaaaaaa", Subject: "feat: newest"},
	))
	s0 := RenderSection("v1.0.0", renderDate, classified(
		commit.Record{Hash: "bbbbbbb", Subject: "feat: oldest"},
	))
	doc, _ := Merge("", s0, "v1.0.0", yes)
	doc, _ = Merge(doc, s1, "v1.1.0", yes)

	got := ExtractSection(doc, "v1.1.0")
	if !strings.HasPrefix(got, "## [v1.1.0]") {
		t.Errorf("extract missing heading: %q", got)
	}
	if strings.Contains(got, "v1.0.0") {
		t.Errorf("extract leaked next section: %q", got)
	}
	if ExtractSection(doc, "v9.9.9") != "" {
		t.Error("extract of absent version not empty")
	}
}
