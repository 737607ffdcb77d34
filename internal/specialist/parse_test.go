package specialist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"marker present", "Looks solid.\nconfidence: 0.85\n", 0.85},
		{"no marker", "Looks solid.", defaultConfidence},
		{"last marker wins", "confidence: 0.2\nrevised\nconfidence: 0.9\n", 0.9},
		{"clamped above one", "confidence: 3.5\n", 1},
		{"uppercase marker", "CONFIDENCE: 0.4\n", 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseConfidence(tt.content))
		})
	}
}

func TestParseDelegation(t *testing.T) {
	assert.Equal(t, "security",
		parseDelegation("This needs an audit.\ndelegate to: security\n").String())
	assert.Empty(t, parseDelegation("No handoff needed."))
	// Unknown roles are ignored rather than propagated.
	assert.Empty(t, parseDelegation("delegate to: wizard\n"))
}

func TestParseActions(t *testing.T) {
	content := "Done.\n" +
		"action[test|high]: add a regression test for the nil receiver\n" +
		"action[refactor]: extract the retry loop\n"

	actions := parseActions(content)
	require.Len(t, actions, 2)

	assert.Equal(t, ActionTest, actions[0].Category)
	assert.Equal(t, PriorityHigh, actions[0].Priority)
	assert.Equal(t, "add a regression test for the nil receiver", actions[0].Text)

	assert.Equal(t, ActionRefactor, actions[1].Category)
	assert.Equal(t, PriorityMedium, actions[1].Priority, "missing priority defaults to medium")
}

func TestParseArtifacts(t *testing.T) {
	content := "Here is the change:\n" +
		"```go\nfunc Add(a, b int) int {\n\treturn a + b\n}\n```\n" +
		"And the summary:\n" +
		"```markdown\nAdds integers.\n```\n"

	artifacts := parseArtifacts(content)
	require.Len(t, artifacts, 2)

	assert.Equal(t, ArtifactCode, artifacts[0].Type)
	assert.Equal(t, "go", artifacts[0].Language)
	assert.Equal(t, 3, artifacts[0].LineCount)

	assert.Equal(t, ArtifactDocument, artifacts[1].Type)
	assert.Equal(t, 1, artifacts[1].LineCount)
}

func TestParseVerdict(t *testing.T) {
	assert.Equal(t, VerdictApprove, ParseVerdict("Clean change.\nverdict: approve\n"))
	assert.Equal(t, VerdictRevise, ParseVerdict("Missing error handling.\nverdict: revise\n"))
	// A review without a verdict line never terminates a loop early.
	assert.Equal(t, VerdictRevise, ParseVerdict("Looks fine I guess."))
	// The last verdict wins.
	assert.Equal(t, VerdictApprove, ParseVerdict("verdict: revise\nOn reflection:\nverdict: approve\n"))
}
