package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

// ComposeDocument wraps a journal body with the standard header, section
// marker and footer. An empty body is replaced by the no-content sentinel.
func ComposeDocument(body string, period domain.Period, generatedAt time.Time, messageCount int) string {
	if strings.TrimSpace(body) == "" {
		body = NoContentSentinel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", DocumentName(period))

	if period.Kind == domain.PeriodDaily {
		fmt.Fprintf(&b, "**日期**: %s  \n", period.Start.Format("2006-01-02"))
	} else {
		fmt.Fprintf(&b, "**期間**: %s - %s  \n",
			period.Start.Format("01/02"), period.End.Format("01/02"))
	}
	fmt.Fprintf(&b, "**生成**: %s  \n\n", generatedAt.Format("2006-01-02 15:04"))

	b.WriteString("## 工作內容\n\n")
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "*共處理 %d 條訊息*\n", messageCount)

	return b.String()
}

// DocumentName returns the canonical journal title, also used as the export
// file name stem.
func DocumentName(period domain.Period) string {
	if period.Kind == domain.PeriodDaily {
		return fmt.Sprintf("工作日誌_%s", period.Start.Format("20060102"))
	}
	return fmt.Sprintf("工作日誌_%s_%s",
		period.Start.Format("20060102"), period.End.Format("20060102"))
}
