package commit

import (
	"regexp"
	"strings"
)

// Type is a conventional commit type.
type Type string

const (
	TypeFeat     Type = "feat"
	TypeFix      Type = "fix"
	TypeDocs     Type = "docs"
	TypeStyle    Type = "style"
	TypeRefactor Type = "refactor"
	TypePerf     Type = "perf"
	TypeTest     Type = "test"
	TypeChore    Type = "chore"
	TypeCI       Type = "ci"
	TypeBuild    Type = "build"
	TypeRevert   Type = "revert"

	// TypeOther is assigned to subjects that do not follow the
	// conventional format. It is not itself a conventional type.
	TypeOther Type = "other"
)

// Types lists the recognized conventional types in documentation order.
var Types = []Type{
	TypeFeat, TypeFix, TypeDocs, TypeStyle, TypeRefactor, TypePerf,
	TypeTest, TypeChore, TypeCI, TypeBuild, TypeRevert,
}

// IsConventional reports whether t is one of the recognized types.
func IsConventional(t Type) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Record is one commit as read from history, before parsing.
type Record struct {
	Hash    string
	Subject string
	Body    string
	Author  string
	Date    string
}

// ShortHash returns the first seven characters of the hash.
func (r Record) ShortHash() string {
	if len(r.Hash) > 7 {
		return r.Hash[:7]
	}
	return r.Hash
}

// Parsed is the structured form of one commit subject.
type Parsed struct {
	Type        Type
	Scope       string
	Breaking    bool
	Description string

	Hash    string // short hash, empty when parsed from a bare subject
	Subject string // the raw subject line
}

var subjectPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!)?:\s*(.+)$`)

// Parse turns a subject line (and optional body) into a Parsed commit.
// Subjects that do not match the conventional grammar, or that use an
// unrecognized type, come back as TypeOther with the whole subject as
// the description.
func Parse(subject, body string) Parsed {
	subject = strings.TrimSpace(subject)

	p := Parsed{Type: TypeOther, Description: subject, Subject: subject}
	m := subjectPattern.FindStringSubmatch(subject)
	if m != nil && IsConventional(Type(m[1])) {
		p.Type = Type(m[1])
		p.Scope = m[2]
		p.Breaking = m[3] == "!"
		p.Description = m[4]
	}
	if hasBreakingMarker(body) {
		p.Breaking = true
	}
	return p
}

// ParseRecord parses a full history record, carrying the short hash
// through for changelog references.
func ParseRecord(r Record) Parsed {
	p := Parse(r.Subject, r.Body)
	p.Hash = r.ShortHash()
	return p
}

// IsMerge reports whether the subject marks a merge commit. Merge
// commits are skipped during classification.
func IsMerge(subject string) bool {
	return strings.Contains(subject, "Merge")
}

func hasBreakingMarker(body string) bool {
	return strings.Contains(body, "BREAKING CHANGE:") || strings.Contains(body, "BREAKING:")
}
