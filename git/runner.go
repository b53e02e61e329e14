package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands on behalf of the driver. It
// is the single seam between the orchestrator and the real VCS;
// injecting a mock runner lets tests simulate any repository state
// without touching git.
type CommandRunner interface {
	// Run executes the command in dir and returns trimmed stdout.
	// A non-zero exit returns an error carrying stderr.
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates the default runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			return "", err
		}
		return strings.TrimSpace(stdout.String()), fmt.Errorf("%s: %w", msg, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// SequentialMockRunner replays queued responses in order, recording
// every call. Tests queue one response per expected command.
type SequentialMockRunner struct {
	responses []mockResponse
	next      int

	// Calls records each invocation as name followed by args.
	Calls [][]string
}

type mockResponse struct {
	output string
	err    error
}

// NewSequentialMockRunner creates an empty mock runner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues a response.
func (m *SequentialMockRunner) AddOutput(output string, err error) {
	m.responses = append(m.responses, mockResponse{output: output, err: err})
}

// AddError queues a failing response with the given stderr text.
func (m *SequentialMockRunner) AddError(stderr string) {
	m.responses = append(m.responses, mockResponse{err: errors.New(stderr)})
}

// Run implements CommandRunner.
func (m *SequentialMockRunner) Run(dir, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, append([]string{name}, args...))
	if m.next >= len(m.responses) {
		return "", fmt.Errorf("unexpected command %s %s", name, strings.Join(args, " "))
	}
	resp := m.responses[m.next]
	m.next++
	return resp.output, resp.err
}
