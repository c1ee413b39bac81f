package classify

import (
	"regexp"
	"strings"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

// Fallback values when the extraction heuristics find nothing.
const (
	FallbackProject     = "unknown"
	FallbackDescription = "work item"
)

var (
	branchTokenExpr = regexp.MustCompile("`[^`]*`")

	featExpr     = regexp.MustCompile(`feat:\s*([^<\n]+)`)
	fixExpr      = regexp.MustCompile(`fix:\s*([^<\n]+)`)
	prMarkerExpr = regexp.MustCompile(`提取要求\s*\d+\s*[:：]\s*(.+)`)

	bareURLLineExpr = regexp.MustCompile(`^<?https?://\S+>?$`)
	colonLineExpr   = regexp.MustCompile(`^[^:：]*[:：]\s*(.+)$`)

	bracketSegmentExpr = regexp.MustCompile(`\[[^\]]*\]`)
	bareURLExpr        = regexp.MustCompile(`https?://\S+`)
	pathFragmentExpr   = regexp.MustCompile(`//\S*`)
	ticketTailExpr     = regexp.MustCompile(`\s*<?\d+>+\s*$`)
)

// Extract pulls a project identifier and a short description out of a
// structured message body. The project is taken from the first line; the
// description is searched with a fixed rule order: feat: marker, fix:
// marker, localized pull-request marker, then any colon-bearing line that is
// not a bare URL. Missing pieces fall back to sentinels.
func Extract(text string) domain.ProjectDescription {
	return domain.ProjectDescription{
		Project:     extractProject(text),
		Description: extractDescription(text),
	}
}

func extractProject(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = branchTokenExpr.ReplaceAllString(line, "")
	if idx := strings.Index(line, "<"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return FallbackProject
	}
	return line
}

func extractDescription(text string) string {
	if m := featExpr.FindStringSubmatch(text); m != nil {
		return CleanDescription(m[1])
	}
	if m := fixExpr.FindStringSubmatch(text); m != nil {
		return CleanDescription(m[1])
	}
	if m := prMarkerExpr.FindStringSubmatch(text); m != nil {
		return CleanDescription(bracketSegmentExpr.ReplaceAllString(m[1], ""))
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || bareURLLineExpr.MatchString(line) {
			continue
		}
		if m := colonLineExpr.FindStringSubmatch(line); m != nil {
			if cleaned := CleanDescription(m[1]); cleaned != "" {
				return cleaned
			}
		}
	}

	return FallbackDescription
}

// CleanDescription strips residual URL fragments, ticket-number artifacts
// and stray bracket characters from an extracted description. The chain is
// idempotent: a second application returns its input unchanged.
func CleanDescription(s string) string {
	s = bracketSegmentExpr.ReplaceAllString(s, "")
	s = bareURLExpr.ReplaceAllString(s, "")
	s = pathFragmentExpr.ReplaceAllString(s, "")
	s = ticketTailExpr.ReplaceAllString(s, "")
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = strings.TrimLeft(s, ":： ")
	return strings.Join(strings.Fields(s), " ")
}
