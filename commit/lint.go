package commit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// lintSubjectPattern is stricter than the history parser: it requires
// whitespace after the colon.
var lintSubjectPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!)?:\s+(.+)$`)

// MaxSubjectLength is the longest subject line accepted by Lint.
const MaxSubjectLength = 72

// LintError describes why a commit message was rejected.
type LintError struct {
	Subject string
	Reason  string
}

func (e *LintError) Error() string {
	return fmt.Sprintf("invalid commit message: %s", e.Reason)
}

// Lint validates a full commit message (subject plus optional body)
// against the conventional commit rules enforced before commits are
// accepted. Parse is deliberately forgiving so history can always be
// classified; Lint is the strict gate.
func Lint(message string) error {
	message = strings.TrimRight(message, "\n")
	if strings.TrimSpace(message) == "" {
		return &LintError{Reason: "empty commit message"}
	}

	lines := strings.Split(message, "\n")
	subject := strings.TrimSpace(lines[0])

	if len(subject) > MaxSubjectLength {
		return &LintError{Subject: subject,
			Reason: fmt.Sprintf("subject line too long (%d > %d characters)", len(subject), MaxSubjectLength)}
	}

	m := lintSubjectPattern.FindStringSubmatch(subject)
	if m == nil {
		return &LintError{Subject: subject,
			Reason: "does not follow the <type>(<scope>): <description> format"}
	}
	typ, breaking, description := Type(m[1]), m[3] == "!", m[4]

	if !IsConventional(typ) {
		return &LintError{Subject: subject,
			Reason: fmt.Sprintf("invalid type %q, must be one of: %s", typ, typeList())}
	}
	if len(strings.TrimSpace(description)) < 3 {
		return &LintError{Subject: subject, Reason: "description too short (minimum 3 characters)"}
	}
	if r := []rune(description)[0]; unicode.IsUpper(r) {
		return &LintError{Subject: subject, Reason: "description should start with a lowercase letter"}
	}
	if strings.HasSuffix(description, ".") {
		return &LintError{Subject: subject, Reason: "description should not end with a period"}
	}

	if len(lines) > 1 && lines[1] != "" {
		return &LintError{Subject: subject, Reason: "missing blank line between subject and body"}
	}

	if breaking && len(lines) > 2 {
		body := strings.Join(lines[2:], "\n")
		if !hasBreakingMarker(body) {
			return &LintError{Subject: subject,
				Reason: "breaking change marker (!) used but no BREAKING CHANGE: section in body"}
		}
	}

	return nil
}

func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
