package classify

import (
	"strings"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

// RuleSet is the merged, case-folded exclusion keyword list. Exclusion is
// absolute: it is evaluated before relevance scoring and before any message
// reaches the AI model, and a single substring hit drops the message.
type RuleSet struct {
	keywords []string
}

// NewRuleSet merges the configured keyword list with a comma-separated
// environment value. The sources concatenate rather than override; blanks
// are skipped and duplicates are tolerated.
func NewRuleSet(configured []string, env string) RuleSet {
	var keywords []string
	for _, kw := range configured {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	for _, kw := range strings.Split(env, ",") {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return RuleSet{keywords: keywords}
}

// Keywords returns the merged list, for prompt appendices and logging.
func (r RuleSet) Keywords() []string {
	return r.keywords
}

// Empty reports whether the rule set has no keywords.
func (r RuleSet) Empty() bool {
	return len(r.keywords) == 0
}

// Match returns the first excluded keyword contained in text, if any.
func (r RuleSet) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// FilterExcluded drops every message whose text contains any exclusion
// keyword. Messages that survive are returned in their original order.
func FilterExcluded(messages []domain.Message, rules RuleSet) []domain.Message {
	if rules.Empty() {
		return messages
	}

	kept := make([]domain.Message, 0, len(messages))
	for _, msg := range messages {
		if _, hit := rules.Match(msg.Text); hit {
			continue
		}
		kept = append(kept, msg)
	}
	return kept
}
