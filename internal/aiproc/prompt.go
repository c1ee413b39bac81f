// Package aiproc builds AI prompts for journal generation. Each message in
// the transcript carries a pre-computed status hint from the shared
// classifier; the model is instructed to obey the hint verbatim, and the
// re-tag pass enforces it afterwards regardless.
package aiproc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Jeff-002/SlackToJournal/internal/classify"
	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

const (
	// maxPromptMessages caps the transcript length embedded in a prompt.
	maxPromptMessages = 50
	// maxMessageRunes truncates individual messages inside the transcript.
	maxMessageRunes = 500
)

const promptHeader = `你是一個專業的工作日誌分析師，專門分析 Slack 對話並提取工作相關內容。

**任務**: 將以下訊息整理成工作日誌條目，每條工作一行。

**時間範圍**: %s 到 %s

**輸出格式**: 每行使用 MM/DD ` + "`狀態`" + ` 描述` + "</br>" + ` 的格式。
狀態只能是 上線、交測 或 分支合併。
每條訊息已附上「判定狀態」提示，必須原樣採用該狀態，不得自行改判。
只輸出工作相關內容，排除社交閒聊；使用繁體中文回應。

**輸入訊息**:
`

// BuildJournalPrompt assembles the transcript prompt for one period. The
// exclusion rule set is appended as a forbidden-keyword notice so the model
// never reintroduces content the filter dropped.
func BuildJournalPrompt(messages []domain.Message, period domain.Period, rules classify.RuleSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptHeader,
		period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))

	limit := len(messages)
	if limit > maxPromptMessages {
		limit = maxPromptMessages
	}

	for i, msg := range messages[:limit] {
		text := truncateRunes(msg.Text, maxMessageRunes)
		hint := classify.ClassifyStatus(text).Tag.Label()
		fmt.Fprintf(&b, "[%d] %s - %s in #%s:\n%s\n判定狀態: %s\n\n",
			i+1,
			msg.Timestamp.Format("2006-01-02 15:04"),
			msg.Author(),
			msg.Channel,
			text,
			hint)
	}

	if len(messages) > limit {
		fmt.Fprintf(&b, "... (省略其餘 %d 條訊息)\n", len(messages)-limit)
	}

	if !rules.Empty() {
		fmt.Fprintf(&b, "\n**禁止事項**: 不得輸出包含以下關鍵字的內容: %s\n",
			strings.Join(rules.Keywords(), ", "))
	}

	return b.String()
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
