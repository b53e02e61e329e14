// Package prompt asks the user yes/no questions on the terminal.
package prompt

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Confirmer answers yes/no questions. The workflow never reads the
// terminal directly, so tests can script every decision.
type Confirmer interface {
	// Confirm asks a question and returns the answer.
	// defaultYes selects the answer chosen by just pressing enter.
	Confirm(question string, defaultYes bool) (bool, error)
}

// Terminal asks questions interactively.
type Terminal struct{}

// Confirm implements Confirmer. Aborting the prompt counts as no.
func (Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	answer := defaultYes
	confirm := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}

// Auto answers every question the same way. Used for --yes mode and
// in tests.
type Auto struct {
	Answer bool
}

// Confirm implements Confirmer.
func (a Auto) Confirm(question string, defaultYes bool) (bool, error) {
	return a.Answer, nil
}

// Default answers every question with its default. Used when stdin is
// not a terminal.
type Default struct{}

// Confirm implements Confirmer.
func (Default) Confirm(question string, defaultYes bool) (bool, error) {
	return defaultYes, nil
}
