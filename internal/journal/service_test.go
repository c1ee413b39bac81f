package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeff-002/SlackToJournal/internal/classify"
	"github.com/Jeff-002/SlackToJournal/internal/domain"
	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

type stubSource struct {
	messages []domain.Message
	err      error
	gotOpts  ports.FetchOptions
}

func (s *stubSource) FetchWindow(_ context.Context, _ domain.Period, opts ports.FetchOptions) ([]domain.Message, error) {
	s.gotOpts = opts
	return s.messages, s.err
}

type stubAI struct {
	output string
	err    error
	prompt string
}

func (s *stubAI) Generate(_ context.Context, prompt string, _ ports.GenerationOptions) (string, error) {
	s.prompt = prompt
	return s.output, s.err
}

type stubUploader struct {
	ref    ports.UploadRef
	err    error
	called bool
}

func (s *stubUploader) Upload(_ context.Context, _ string, _ []byte, _ string) (ports.UploadRef, error) {
	s.called = true
	return s.ref, s.err
}

type stubRepository struct {
	saved []domain.JournalEntry
	err   error
}

func (s *stubRepository) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	s.saved = append(s.saved, entry)
	return s.err
}

func (s *stubRepository) FindByPeriod(context.Context, domain.PeriodKind, time.Time) (*domain.JournalEntry, error) {
	return nil, nil
}

func (s *stubRepository) ListRecent(context.Context, int) ([]domain.JournalEntry, error) {
	return s.saved, nil
}

func workMessage(day int, text string) domain.Message {
	return domain.Message{
		AuthorName: "Bob",
		Text:       text,
		Channel:    "dev-backend",
		Timestamp:  time.Date(2025, time.August, day, 10, 0, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T, deps Deps) *Service {
	t.Helper()
	if deps.Options.OutputDir == "" {
		deps.Options.OutputDir = t.TempDir()
	}
	svc := NewService(deps)
	svc.now = func() time.Time {
		return time.Date(2025, time.August, 29, 17, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestGenerateWeeklyWithAI(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "deploy the new release to production"),
	}}
	ai := &stubAI{output: "08/25 deploy the new release"}
	repo := &stubRepository{}

	svc := newTestService(t, Deps{Source: source, AI: ai, Repository: repo})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, result.UsedAI)
	assert.Equal(t, 1, result.MessagesProcessed)
	assert.NotEmpty(t, result.LocalPath)

	// The raw completion is re-tagged before assembly.
	assert.Contains(t, result.Entry.Content, "08/25 `上線` deploy the new release</br>")
	assert.Contains(t, result.Entry.Content, "# 工作日誌_20250825_20250829")
	assert.Contains(t, ai.prompt, "判定狀態: 上線")

	require.Len(t, repo.saved, 1)
	assert.Equal(t, domain.PeriodWeekly, repo.saved[0].Kind)
	assert.Equal(t, result.Entry.Content, repo.saved[0].Content)
}

func TestGenerateWeeklyFallsBackToRulesOnAIError(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "ws.buycase `fix-search` <https://github.com/org/repo|repo>\n"+
			"feat: improve search ranking <https://github.com/org/repo/pull/123|123>"),
	}}
	ai := &stubAI{err: errors.New("model unavailable")}

	svc := newTestService(t, Deps{Source: source, AI: ai})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.False(t, result.UsedAI)
	assert.Contains(t, result.Entry.Content,
		"08/25 `Bob` `分支合併` ws.buycase - improve search ranking</br>")
}

func TestGenerateWeeklyDirectHidesAuthorWithUserFilter(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(26, "billing-api\nfix: reject duplicate deploy and release requests"),
	}}

	svc := newTestService(t, Deps{
		Source:  source,
		Options: Options{UserFilter: "Bob", OutputDir: t.TempDir()},
	})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Bob", source.gotOpts.UserName)
	assert.Contains(t, result.Entry.Content, "08/26 `上線` billing-api - reject duplicate deploy and release requests</br>")
	assert.NotContains(t, result.Entry.Content, "`Bob`")
}

func TestGenerateWeeklyNoMessages(t *testing.T) {
	t.Parallel()

	source := &stubSource{}
	svc := newTestService(t, Deps{Source: source})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 0, result.MessagesProcessed)
	assert.False(t, result.UsedAI)
	assert.Contains(t, result.Entry.Content, NoContentSentinel)
}

func TestGenerateWeeklyExclusionBeforeRelevance(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "sync deploy to production done"),
		workMessage(26, "deploy the new release to production"),
	}}
	ai := &stubAI{output: "08/26 `上線` release done</br>"}

	svc := newTestService(t, Deps{
		Source: source,
		AI:     ai,
		Rules:  classify.NewRuleSet([]string{"sync"}, ""),
	})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 1, result.MessagesProcessed)
	assert.NotContains(t, ai.prompt, "sync deploy")
}

func TestGenerateWeeklyRelevanceOverNormalizedText(t *testing.T) {
	t.Parallel()

	// Markup and whitespace runs are stripped before scoring; the short
	// greeting fails the length gate.
	source := &stubSource{messages: []domain.Message{
		workMessage(25, "<@U12345ABC>   deploy   the   new   release"),
		workMessage(26, "hi"),
	}}

	svc := newTestService(t, Deps{Source: source})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, result.MessagesProcessed)
}

func TestExportFallsBackToLocalOnUploadError(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "deploy the new release to production"),
	}}
	uploader := &stubUploader{err: errors.New("quota exceeded")}

	svc := newTestService(t, Deps{
		Source:   source,
		Uploader: uploader,
		Options:  Options{UploadToDrive: true, OutputDir: t.TempDir()},
	})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, uploader.called)
	assert.Empty(t, result.RemoteLink)
	require.NotEmpty(t, result.LocalPath)

	content, err := os.ReadFile(result.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, result.Entry.Content, string(content))
}

func TestExportUploadSuccessSkipsLocal(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "deploy the new release to production"),
	}}
	uploader := &stubUploader{ref: ports.UploadRef{ID: "f1", Link: "https://drive.example/f1"}}

	svc := newTestService(t, Deps{
		Source:   source,
		Uploader: uploader,
		Options:  Options{UploadToDrive: true, OutputDir: t.TempDir()},
	})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "https://drive.example/f1", result.RemoteLink)
	assert.Empty(t, result.LocalPath)
	assert.Equal(t, "https://drive.example/f1", result.Entry.ExportLocation)
}

func TestGenerateWeeklyArchiveFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "deploy the new release to production"),
	}}
	repo := &stubRepository{err: errors.New("disk full")}

	svc := newTestService(t, Deps{Source: source, Repository: repo})

	_, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestGenerateWeeklyFetchErrorIsFatal(t *testing.T) {
	t.Parallel()

	source := &stubSource{err: fmt.Errorf("slack unavailable")}
	svc := newTestService(t, Deps{Source: source})

	_, err := svc.GenerateWeekly(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestGenerateDaily(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(27, "deploy the new release to production"),
	}}

	svc := newTestService(t, Deps{Source: source})

	result, err := svc.GenerateDaily(context.Background(), time.Date(2025, time.August, 27, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodDaily, result.Entry.Kind)
	assert.Contains(t, result.Entry.Content, "# 工作日誌_20250827")
}

func TestGenerateWeeklyDirectEndToEnd(t *testing.T) {
	t.Parallel()

	source := &stubSource{messages: []domain.Message{
		workMessage(25, "`develop` ws.buycase <https://github.com/org/repo|repo> 提取要求 61899: 調整搜尋邏輯"),
	}}

	svc := newTestService(t, Deps{Source: source})

	result, err := svc.GenerateWeekly(context.Background(), time.Date(2025, time.August, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, result.Entry.Content, "08/25 `Bob` `上線` ws.buycase - 調整搜尋邏輯</br>")
}

func TestSelectWorkMessagesOrdersByTimestamp(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, Deps{Source: &stubSource{}})

	messages := []domain.Message{
		workMessage(27, "deploy the new release to production"),
		workMessage(25, "sent the build for testing and qa review"),
	}
	work := svc.selectWorkMessages(messages)

	require.Len(t, work, 2)
	assert.True(t, work[0].Timestamp.Before(work[1].Timestamp))
}
