package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTitle heads a freshly created changelog document.
const DefaultTitle = "# Changelog"

// preamble follows the title in a freshly created document.
const preamble = `All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.0.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).`

// ErrDeclined is returned by Merge when a section for the version
// already exists and the caller declined to replace it.
var ErrDeclined = fmt.Errorf("changelog update declined")

// HasVersion reports whether the document already contains a section
// for the given version.
func HasVersion(doc, ver string) bool {
	return strings.Contains(doc, "## ["+ver+"]")
}

// Merge inserts a rendered section into the document, keeping at most
// one section per version. When the version is already present the
// confirm callback decides whether the old section is replaced; on a
// negative answer the document is returned unchanged alongside
// ErrDeclined. A new document gets the standard title and preamble.
func Merge(doc, section, ver string, confirm func(prompt string) (bool, error)) (string, error) {
	if HasVersion(doc, ver) {
		ok, err := confirm(fmt.Sprintf("Version %s already exists in the changelog. Overwrite the existing entry?", ver))
		if err != nil {
			return doc, err
		}
		if !ok {
			return doc, ErrDeclined
		}
		doc = removeSection(doc, ver)
	}

	if strings.TrimSpace(doc) == "" {
		return DefaultTitle + "\n\n" + preamble + "\n\n" + strings.TrimRight(section, "\n") + "\n", nil
	}

	lines := strings.Split(doc, "\n")
	insert := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			insert = i + 1
			break
		}
	}
	// Skip the preamble so the new section lands just above the
	// previous newest section.
	for insert < len(lines) && !strings.HasPrefix(lines[insert], "## ") {
		insert++
	}

	block := append([]string{}, lines[:insert]...)
	block = append(block, strings.Split(strings.TrimRight(section, "\n"), "\n")...)
	block = append(block, "")
	block = append(block, lines[insert:]...)
	return strings.Join(block, "\n"), nil
}

// ExtractSection returns the body of the section for a version,
// heading included, or the empty string when absent.
func ExtractSection(doc, ver string) string {
	m := sectionPattern(ver).FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSuffix(m[0], m[1]), "\n")
}

// removeSection deletes the section for a version, from its heading to
// the next "## [" heading or end of document.
func removeSection(doc, ver string) string {
	return sectionPattern(ver).ReplaceAllString(doc, "$1")
}

func sectionPattern(ver string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)## \[` + regexp.QuoteMeta(ver) + `\].*?(\n## \[|$)`)
}
