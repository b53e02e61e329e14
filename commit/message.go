package commit

import (
	"fmt"
	"strings"
)

// Message builds a conventional commit message. The orchestrator uses
// it for the commits it creates itself (version bumps, changelog
// updates) so that generated history passes the same validation as
// hand-written commits.
type Message struct {
	Type     Type
	Scope    string
	Subject  string
	Body     string
	Breaking bool
}

// NewMessage creates a message with the given type and subject.
func NewMessage(typ Type, subject string) *Message {
	return &Message{Type: typ, Subject: subject}
}

// WithScope sets the scope.
func (m *Message) WithScope(scope string) *Message {
	m.Scope = scope
	return m
}

// WithBody sets the body.
func (m *Message) WithBody(body string) *Message {
	m.Body = body
	return m
}

// WithBreaking marks the message as a breaking change.
func (m *Message) WithBreaking() *Message {
	m.Breaking = true
	return m
}

// Validate checks the message can be rendered into a valid subject.
func (m *Message) Validate() error {
	if !IsConventional(m.Type) {
		return fmt.Errorf("commit type %q is not a conventional type", m.Type)
	}
	if m.Subject == "" {
		return fmt.Errorf("commit subject is required")
	}
	if len(m.Subject) > MaxSubjectLength {
		return fmt.Errorf("commit subject too long (max %d characters)", MaxSubjectLength)
	}
	return nil
}

// String renders the message in conventional commit format.
func (m *Message) String() string {
	var b strings.Builder

	b.WriteString(string(m.Type))
	if m.Scope != "" {
		b.WriteString("(")
		b.WriteString(m.Scope)
		b.WriteString(")")
	}
	if m.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(m.Subject)

	if m.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(wrapText(m.Body, 72))
	}
	if m.Breaking {
		b.WriteString("\n\nBREAKING CHANGE: ")
		if m.Body != "" {
			b.WriteString("see body")
		} else {
			b.WriteString(m.Subject)
		}
	}
	return b.String()
}

// wrapText wraps text at the given width, preserving existing newlines.
func wrapText(text string, width int) string {
	var result []string

	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) > width:
				result = append(result, line)
				line = word
			default:
				line += " " + word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
