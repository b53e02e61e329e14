// Package hook implements the tool-call guard protocol. It reads a
// JSON request describing a shell command about to run, inspects git
// commands that create commits or branches or push to protected
// branches, and answers with an allow or deny decision.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jakreymyers/myrs-git-flow/branch"
	"github.com/jakreymyers/myrs-git-flow/commit"
)

// Request is the guard input read from stdin.
type Request struct {
	ToolName  string    `json:"tool_name"`
	ToolInput ToolInput `json:"tool_input"`
}

// ToolInput carries the command under inspection.
type ToolInput struct {
	Command string `json:"command"`
}

// Decision values.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Decision is the guard output written to stdout.
type Decision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// Guard evaluates commands against the branch and commit rules.
type Guard struct {
	// ProtectedBranches may not be pushed to directly. The finish
	// workflow pushes them itself after a reviewed merge.
	ProtectedBranches []string
}

// NewGuard creates a guard protecting the given branches.
func NewGuard(protected ...string) *Guard {
	return &Guard{ProtectedBranches: protected}
}

// Run reads one request from r, evaluates it, and writes the
// decision to w.
func (g *Guard) Run(r io.Reader, w io.Writer) error {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return json.NewEncoder(w).Encode(g.Evaluate(req))
}

// Evaluate applies the rules to one request. Commands the guard does
// not understand are allowed.
func (g *Guard) Evaluate(req Request) Decision {
	tokens := tokenize(req.ToolInput.Command)
	if len(tokens) < 2 || tokens[0] != "git" {
		return Decision{Decision: DecisionAllow}
	}

	switch tokens[1] {
	case "commit":
		return g.checkCommit(tokens)
	case "checkout", "switch":
		return g.checkBranchCreation(tokens)
	case "push":
		return g.checkPush(tokens)
	}
	return Decision{Decision: DecisionAllow}
}

// checkCommit lints the -m message of a git commit command.
func (g *Guard) checkCommit(tokens []string) Decision {
	for i, tok := range tokens {
		if (tok == "-m" || tok == "--message") && i+1 < len(tokens) {
			if err := commit.Lint(tokens[i+1]); err != nil {
				return Decision{
					Decision: DecisionDeny,
					Reason:   fmt.Sprintf("commit message rejected: %v", err),
				}
			}
			return Decision{Decision: DecisionAllow}
		}
	}
	// No inline message, the editor flow is not ours to judge.
	return Decision{Decision: DecisionAllow}
}

// checkBranchCreation validates the name given to checkout -b or
// switch -c.
func (g *Guard) checkBranchCreation(tokens []string) Decision {
	for i, tok := range tokens {
		if (tok == "-b" || tok == "-c" || tok == "--create") && i+1 < len(tokens) {
			name := tokens[i+1]
			if _, err := branch.Parse(name); err != nil {
				return Decision{
					Decision: DecisionDeny,
					Reason:   fmt.Sprintf("branch name rejected: %v", err),
				}
			}
			return Decision{Decision: DecisionAllow}
		}
	}
	return Decision{Decision: DecisionAllow}
}

// checkPush blocks direct pushes to protected branches.
func (g *Guard) checkPush(tokens []string) Decision {
	for _, tok := range tokens[2:] {
		if strings.HasPrefix(tok, "-") {
			continue
		}
		ref := tok
		// refspec form src:dst targets dst
		if _, dst, ok := strings.Cut(tok, ":"); ok {
			ref = dst
		}
		for _, protected := range g.ProtectedBranches {
			if ref == protected {
				return Decision{
					Decision: DecisionDeny,
					Reason:   fmt.Sprintf("direct push to %s is not allowed; finish a release or hotfix branch instead", protected),
				}
			}
		}
	}
	return Decision{Decision: DecisionAllow}
}

// tokenize splits a shell command, honoring single and double quotes.
func tokenize(command string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune
	inToken := false

	for _, r := range command {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}
