package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

func TestRenderLine(t *testing.T) {
	t.Parallel()

	item := domain.WorkItem{
		Date:        "08/25",
		Author:      "Alice",
		Tag:         domain.StatusDeployed,
		Project:     "ws.buycase",
		Description: "fix search bug",
	}
	assert.Equal(t, "08/25 `Alice` `上線` ws.buycase - fix search bug</br>", RenderLine(item))

	item.Author = ""
	item.Tag = domain.StatusMerged
	assert.Equal(t, "08/25 `分支合併` ws.buycase - fix search bug</br>", RenderLine(item))
}

func TestRetag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "untagged line gets derived tag",
			in:   "08/25 部署新版本到 production",
			want: "08/25 `上線` 部署新版本到 production</br>",
		},
		{
			name: "existing backtick tag preserved verbatim",
			in:   "08/25 `交測` fix search bug</br>",
			want: "08/25 `交測` fix search bug</br>",
		},
		{
			name: "bold tag converted to backtick",
			in:   "08/26 **上線** release notes",
			want: "08/26 `上線` release notes</br>",
		},
		{
			name: "square bracket tag converted to backtick",
			in:   "08/27 [分支合併] cleanup branch",
			want: "08/27 `分支合併` cleanup branch</br>",
		},
		{
			name: "duplicate terminators collapse to one",
			in:   "08/25 `上線` fix</br></br>",
			want: "08/25 `上線` fix</br>",
		},
		{
			name: "heading passes through",
			in:   "# 工作日誌_20250825_20250829",
			want: "# 工作日誌_20250825_20250829",
		},
		{
			name: "sentinel line passes through",
			in:   NoContentSentinel,
			want: NoContentSentinel,
		},
		{
			name: "code fence passes through",
			in:   "```\ncode\n```",
			want: "```\ncode\n```",
		},
		{
			name: "non-matching line passes through",
			in:   "not a journal line",
			want: "not a journal line",
		},
		{
			name: "blank lines preserved",
			in:   "08/25 deploy done\n\n08/26 sent for testing",
			want: "08/25 `上線` deploy done</br>\n\n08/26 `交測` sent for testing</br>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Retag(tt.in))
		})
	}
}

func TestRetagIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"08/25 `Alice` `上線` ws.buycase - fix search bug</br>",
		"08/25 部署新版本\n08/26 **交測** handed over\n# header\n",
		"08/27 [分支合併] cleanup</br></br>",
	}
	for _, in := range inputs {
		once := Retag(in)
		assert.Equal(t, once, Retag(once), "input %q", in)
	}
}
