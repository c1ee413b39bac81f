// Package journal renders classified work items into journal documents and
// normalizes AI-generated output back into the canonical line format.
package journal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Jeff-002/SlackToJournal/internal/classify"
	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

// Terminator closes every rendered work-item line.
const Terminator = "</br>"

// NoContentSentinel is the body emitted when no qualifying messages exist.
// Retag recognizes the leading 本 and leaves such lines untouched.
const NoContentSentinel = "本期間沒有檢測到工作相關的 Slack 討論內容。"

// Work-item line with an optional existing tag in backtick, bold or
// square-bracket syntax. Lines the pattern rejects pass through Retag
// unmodified; content is never dropped.
var taggedLineExpr = regexp.MustCompile("^(\\d{1,2}/\\d{1,2})\\s+(?:`([^`]+)`|\\*\\*([^*]+)\\*\\*|\\[([^\\]]+)\\])?(.+)$")

// RenderLine formats a single work item. The author segment is present only
// when the caller passes a non-empty author (author display enabled).
func RenderLine(item domain.WorkItem) string {
	var b strings.Builder
	b.WriteString(item.Date)
	b.WriteByte(' ')
	if item.Author != "" {
		fmt.Fprintf(&b, "`%s` ", item.Author)
	}
	fmt.Fprintf(&b, "`%s` %s - %s%s", item.Tag.Label(), item.Project, item.Description, Terminator)
	return b.String()
}

// Retag normalizes a block of already-tagged-or-untagged text line by line,
// guaranteeing a canonical backtick tag and exactly one terminator per work
// item. Existing tags are preserved verbatim and never re-derived; untagged
// lines get a tag from the shared status classifier. The pass is idempotent.
func Retag(document string) string {
	lines := strings.Split(document, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" ||
			strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "```") ||
			strings.HasPrefix(line, "本") {
			out = append(out, line)
			continue
		}

		m := taggedLineExpr.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		date := m[1]
		label := strings.TrimSpace(firstNonEmpty(m[2], m[3], m[4]))
		description := strings.TrimSpace(strings.ReplaceAll(m[5], Terminator, ""))

		if label == "" {
			label = classify.ClassifyStatus(description).Tag.Label()
		}

		out = append(out, fmt.Sprintf("%s `%s` %s%s", date, label, description, Terminator))
	}

	return strings.Join(out, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
