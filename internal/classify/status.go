package classify

import (
	"strings"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

// Keyword groups checked in fixed order. DEPLOYED wins over HANDED_TO_TEST
// even when both groups match the same text ("deploy to test server" is
// reported as deployed); the ordering drives the shipped-vs-in-verification
// distinction downstream and must not change.
var (
	deployedKeywords = []string{
		"develop", "dev", "master", "部署", "上線", "deploy", "production",
		"prod", "release", "發布", "live", "deployment",
	}
	handedToTestKeywords = []string{
		"測試", "測試機", "test", "testing", "training", "qa", "quality",
		"verify", "驗證", "staging",
	}
)

// ClassifyStatus derives the status tag for a message or journal line via
// case-folded substring matching. Exactly one tag is produced for every
// input; MERGED is the fallback when no keyword matches.
func ClassifyStatus(text string) domain.Classification {
	lower := strings.ToLower(text)

	for _, kw := range deployedKeywords {
		if strings.Contains(lower, kw) {
			return domain.Classification{Tag: domain.StatusDeployed, Keyword: kw}
		}
	}
	for _, kw := range handedToTestKeywords {
		if strings.Contains(lower, kw) {
			return domain.Classification{Tag: domain.StatusHandedToTest, Keyword: kw}
		}
	}

	return domain.Classification{Tag: domain.StatusMerged}
}
