package specialist

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cadre-ai/cadre/internal/role"
)

// defaultConfidence is assumed when a response carries no confidence marker.
const defaultConfidence = 0.5

// Specialists annotate responses with line-oriented markers:
//
//	confidence: 0.85
//	delegate to: security
//	action[test|high]: add a regression test for the nil receiver
//	verdict: approve
var (
	confidenceRe = regexp.MustCompile(`(?im)^confidence:\s*([0-9]*\.?[0-9]+)\s*$`)
	delegateRe   = regexp.MustCompile(`(?im)^delegate(?:\s+to)?:\s*([a-z_]+)\s*$`)
	actionRe     = regexp.MustCompile(`(?im)^action\[([a-z]+)(?:\|(low|medium|high))?\]:\s*(.+)$`)
	verdictRe    = regexp.MustCompile(`(?im)^verdict:\s*(approve|revise)\s*$`)
	fenceRe      = regexp.MustCompile("(?ms)^```([A-Za-z0-9_+.-]*)[ \t]*\n(.*?)^```")
)

// parseConfidence extracts the self-reported confidence, clamped to [0,1].
// The last marker wins when several appear.
func parseConfidence(content string) float64 {
	matches := confidenceRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return defaultConfidence
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
	if err != nil {
		return defaultConfidence
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// parseDelegation extracts a suggested delegation target. It returns the
// empty role when no marker is present or the named role is unknown.
func parseDelegation(content string) role.AgentRole {
	m := delegateRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	r := role.AgentRole(strings.ToLower(m[1]))
	if !r.IsValid() {
		return ""
	}
	return r
}

// parseActions extracts suggested follow-up actions. Unknown categories are
// kept verbatim; a missing priority defaults to medium.
func parseActions(content string) []SuggestedAction {
	var out []SuggestedAction
	for _, m := range actionRe.FindAllStringSubmatch(content, -1) {
		a := SuggestedAction{
			Text:     strings.TrimSpace(m[3]),
			Category: ActionCategory(strings.ToLower(m[1])),
			Priority: PriorityMedium,
		}
		if m[2] != "" {
			a.Priority = ActionPriority(strings.ToLower(m[2]))
		}
		out = append(out, a)
	}
	return out
}

// parseArtifacts extracts fenced code blocks as artifacts. The fence's
// language tag selects the artifact type: diff/patch blocks become diffs,
// markdown/text blocks become documents, everything else is code.
func parseArtifacts(content string) []Artifact {
	var out []Artifact
	for _, m := range fenceRe.FindAllStringSubmatch(content, -1) {
		lang := strings.ToLower(m[1])
		body := strings.TrimRight(m[2], "\n")
		out = append(out, Artifact{
			Type:      artifactTypeFor(lang),
			Language:  lang,
			Content:   body,
			LineCount: lineCount(body),
		})
	}
	return out
}

func artifactTypeFor(lang string) ArtifactType {
	switch lang {
	case "diff", "patch":
		return ArtifactDiff
	case "md", "markdown", "text", "txt":
		return ArtifactDocument
	default:
		return ArtifactCode
	}
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// Verdict is a reviewer's judgment on an implementation.
type Verdict string

const (
	// VerdictApprove accepts the implementation as-is.
	VerdictApprove Verdict = "approve"

	// VerdictRevise requests another implementation pass.
	VerdictRevise Verdict = "revise"
)

// ParseVerdict extracts the reviewer verdict from a review. The last verdict
// line wins when several appear. A review with no verdict line is treated as
// requesting revision, so a malformed review never terminates a loop early.
func ParseVerdict(content string) Verdict {
	matches := verdictRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return VerdictRevise
	}
	return Verdict(strings.ToLower(matches[len(matches)-1][1]))
}
