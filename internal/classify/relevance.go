package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinLength is the length gate applied by the weekly pipeline.
// SearchMinLength is the stricter gate the keyword-search path uses; the two
// are per-path configuration, not alternatives to reconcile.
const (
	DefaultMinLength = 5
	SearchMinLength  = 10

	acceptScore = 2
)

var workKeywords = []string{
	// project and task management
	"project", "task", "deadline", "milestone", "sprint", "epic", "story",
	"issue", "bug", "feature", "requirement", "specification",
	// development
	"code", "repository", "commit", "merge", "pull request", "pr", "branch",
	"deploy", "deployment", "release", "version", "build", "test", "testing",
	// meetings and collaboration
	"meeting", "discussion", "decision", "review", "feedback", "approval",
	"presentation", "demo", "standup", "retrospective", "planning",
	// business
	"client", "customer", "user", "stakeholder", "business",
	"proposal", "contract", "budget", "timeline", "scope",
	// documentation and process
	"document", "documentation", "guideline", "process",
	"procedure", "workflow", "architecture", "design",
	// status and progress
	"progress", "status", "update", "complete", "finished", "done", "todo",
	"working on", "started", "blocked", "help needed",
}

var casualKeywords = []string{
	"lunch", "coffee", "weather", "weekend", "vacation", "holiday",
	"birthday", "congratulations", "congrats", "party", "celebration",
	"music", "movie", "tv", "game", "sport", "football", "basketball",
	"joke", "funny", "lol", "haha", "emoji", "meme",
}

var workToolNames = []string{
	"jira", "github", "confluence", "slack", "zoom", "calendar",
	"trello", "asana", "monday", "notion",
}

var workPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(will|going to|plan to|need to|have to)\s+\w+`),
	regexp.MustCompile(`(?i)\b(completed|finished|done with|working on)\s+\w+`),
	regexp.MustCompile(`(?i)\b(review|feedback|thoughts on)\s+\w+`),
	regexp.MustCompile(`(?i)\b(issue|problem|bug)\s+with\s+\w+`),
	regexp.MustCompile(`(?i)\b(meeting|call|sync)\s+(today|tomorrow|this week)`),
	regexp.MustCompile(`(?i)\b(deadline|due date|timeline)\s+`),
	regexp.MustCompile(`[A-Z]+-\d+`),   // ticket numbers
	regexp.MustCompile(`v\d+\.\d+`),    // version numbers
}

// IsWorkRelated scores text against keyword sets and work patterns and
// reports whether it clears the acceptance threshold. This is a heuristic
// signal, not ground truth.
func IsWorkRelated(text string) bool {
	return IsWorkRelatedAt(text, DefaultMinLength)
}

// IsWorkRelatedAt is IsWorkRelated with an explicit minimum-length gate.
func IsWorkRelatedAt(text string, minLength int) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minLength {
		return false
	}

	lower := strings.ToLower(text)

	workHits := 0
	for _, kw := range workKeywords {
		if strings.Contains(lower, kw) {
			workHits++
		}
	}

	casualHits := 0
	for _, kw := range casualKeywords {
		if strings.Contains(lower, kw) {
			casualHits++
		}
	}

	patternHits := 0
	for _, expr := range workPatterns {
		if expr.MatchString(text) {
			patternHits++
		}
	}

	score := workHits + patternHits - 2*casualHits

	if strings.Contains(text, "`") || mentionsWorkTool(lower) {
		score += 2
	}
	if strings.Contains(text, "?") && workHits > 0 {
		score++
	}
	if utf8.RuneCountInString(text) > 100 {
		score++
	}

	return score >= acceptScore
}

func mentionsWorkTool(lower string) bool {
	for _, tool := range workToolNames {
		if strings.Contains(lower, tool) {
			return true
		}
	}
	return false
}
