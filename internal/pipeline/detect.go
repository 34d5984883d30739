package pipeline

import (
	"regexp"
	"strings"
)

type DetectResult struct {
	IsMission bool
	Score     float64
	Reason    string
}

var (
	detectKeywords = []string{"hauling", "contract", "cargo", "mission", "reward", "scu"}
	scuPattern     = regexp.MustCompile(`(?i)\b\d+(?:/\d+)?\s*SCU\b`)
)

// DetectMissionText scores whether a forwarded message looks like hauling
// contract text before it is run through extraction.
func DetectMissionText(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	lower := strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(lower, kw) {
			score += 0.05
		}
	}

	if deliverPattern.MatchString(RepairLineBreaks(text)) {
		score += 0.5
	} else if hits := len(scuPattern.FindAllStringIndex(text, -1)); hits >= 2 {
		score += 0.3
	} else if hits == 1 {
		score += 0.15
	}

	if extractPayout(text) != nil {
		score += 0.15
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".pdf") || strings.HasSuffix(ln, ".txt") {
			score += 0.1
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isMission := score >= 0.45
	reason := "rules_negative"
	if isMission {
		reason = "rules_positive"
	}

	return DetectResult{IsMission: isMission, Score: score, Reason: reason}
}
