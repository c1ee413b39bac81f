package journal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jeff-002/SlackToJournal/internal/aiproc"
	"github.com/Jeff-002/SlackToJournal/internal/classify"
	"github.com/Jeff-002/SlackToJournal/internal/domain"
	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

// Options tune a generation run.
type Options struct {
	// OutputDir receives local journal files; defaults to "journals".
	OutputDir string
	// UploadToDrive enables the remote exporter. On exporter failure the
	// run falls back to local persistence without retrying.
	UploadToDrive bool
	// TargetChannels limits the fetch; empty means auto-detection.
	TargetChannels []string
	// UserFilter restricts messages to one author. Author names are
	// embedded in output lines exactly when no filter is set.
	UserFilter string
	// MinLength is the relevance length gate; defaults to
	// classify.DefaultMinLength.
	MinLength int
}

// Deps wires all driven adapters into the journal service.
type Deps struct {
	Source     ports.MessageSource
	AI         ports.ChatClient
	Uploader   ports.Uploader
	Repository ports.JournalRepository
	Rules      classify.RuleSet
	Generation ports.GenerationOptions
	Options    Options
	Logger     *slog.Logger
}

// Service orchestrates the journal generation workflow: fetch, exclusion
// filter, normalization, relevance filter, summarization (AI or direct
// rule-based), re-tag normalization, assembly and export.
type Service struct {
	source     ports.MessageSource
	ai         ports.ChatClient
	uploader   ports.Uploader
	repository ports.JournalRepository
	rules      classify.RuleSet
	generation ports.GenerationOptions
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs the orchestration component.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Options.OutputDir == "" {
		deps.Options.OutputDir = "journals"
	}
	if deps.Options.MinLength <= 0 {
		deps.Options.MinLength = classify.DefaultMinLength
	}
	return &Service{
		source:     deps.Source,
		ai:         deps.AI,
		uploader:   deps.Uploader,
		repository: deps.Repository,
		rules:      deps.Rules,
		generation: deps.Generation,
		opts:       deps.Options,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// GenerateWeekly produces the journal for the work week containing target.
func (s *Service) GenerateWeekly(ctx context.Context, target time.Time) (domain.Result, error) {
	return s.run(ctx, domain.WeekOf(target))
}

// GenerateDaily produces the journal for the day containing target.
func (s *Service) GenerateDaily(ctx context.Context, target time.Time) (domain.Result, error) {
	return s.run(ctx, domain.DayOf(target))
}

func (s *Service) run(ctx context.Context, period domain.Period) (domain.Result, error) {
	if s.source == nil {
		return domain.Result{}, fmt.Errorf("message source is not configured")
	}

	s.logger.Info("generating journal",
		"kind", period.Kind,
		"start", period.Start.Format("2006-01-02"),
		"end", period.End.Format("2006-01-02"))

	messages, err := s.source.FetchWindow(ctx, period, ports.FetchOptions{
		Channels: s.opts.TargetChannels,
		UserName: s.opts.UserFilter,
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("fetch messages: %w", err)
	}

	work := s.selectWorkMessages(messages)
	s.logger.Info("filtered messages", "retrieved", len(messages), "work", len(work))

	body, usedAI := s.summarize(ctx, work, period)
	document := ComposeDocument(body, period, s.now(), len(work))

	result := domain.Result{
		MessagesProcessed: len(work),
		UsedAI:            usedAI,
	}

	if err := s.export(ctx, document, period, &result); err != nil {
		return domain.Result{}, err
	}

	if s.repository != nil {
		if prior, err := s.repository.FindByPeriod(ctx, period.Kind, period.Start); err == nil && prior != nil {
			s.logger.Info("regenerating archived period", "previous", prior.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	entry := domain.JournalEntry{
		ID:             uuid.NewString(),
		Kind:           period.Kind,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		MessageCount:   len(work),
		Content:        document,
		ExportLocation: exportLocation(result),
		CreatedAt:      s.now(),
	}
	if s.repository != nil {
		if err := s.repository.SaveEntry(ctx, entry); err != nil {
			s.logger.Warn("archive entry not saved", "error", err)
		}
	}
	result.Entry = entry

	return result, nil
}

// selectWorkMessages applies the exclusion filter first (absolute, before
// any other analysis), then the relevance scorer over normalized text, and
// re-imposes timestamp order.
func (s *Service) selectWorkMessages(messages []domain.Message) []domain.Message {
	kept := classify.FilterExcluded(messages, s.rules)

	work := make([]domain.Message, 0, len(kept))
	for _, msg := range kept {
		if classify.IsWorkRelatedAt(classify.Normalize(msg.Text), s.opts.MinLength) {
			work = append(work, msg)
		}
	}

	sort.SliceStable(work, func(i, j int) bool {
		return work[i].Timestamp.Before(work[j].Timestamp)
	})
	return work
}

// summarize produces the journal body. The AI path re-normalizes the raw
// completion through Retag; on AI failure the direct rule-based path takes
// over so a run never fails for lack of a model.
func (s *Service) summarize(ctx context.Context, work []domain.Message, period domain.Period) (string, bool) {
	if len(work) == 0 {
		return "", false
	}

	if s.ai != nil {
		prompt := aiproc.BuildJournalPrompt(work, period, s.rules)
		raw, err := s.ai.Generate(ctx, prompt, s.generation)
		if err == nil {
			return Retag(raw), true
		}
		s.logger.Warn("ai generation failed, using rule-based summary", "error", err)
	}

	return s.renderDirect(work), false
}

func (s *Service) renderDirect(work []domain.Message) string {
	lines := make([]string, 0, len(work))
	for _, msg := range work {
		extracted := classify.Extract(msg.Text)
		status := classify.ClassifyStatus(msg.Text)

		author := ""
		if s.opts.UserFilter == "" {
			author = msg.Author()
		}

		lines = append(lines, RenderLine(domain.WorkItem{
			Date:        msg.Timestamp.Format("01/02"),
			Author:      author,
			Tag:         status.Tag,
			Project:     extracted.Project,
			Description: extracted.Description,
		}))
	}

	return strings.Join(lines, "\n")
}

// export uploads when enabled and falls back to a local file on any upload
// error. The run succeeds as long as local persistence succeeds.
func (s *Service) export(ctx context.Context, document string, period domain.Period, result *domain.Result) error {
	name := DocumentName(period) + ".md"

	if s.uploader != nil && s.opts.UploadToDrive {
		ref, err := s.uploader.Upload(ctx, name, []byte(document), drivePath(period))
		if err == nil {
			s.logger.Info("journal uploaded", "name", name, "link", ref.Link)
			result.RemoteLink = ref.Link
			return nil
		}
		s.logger.Warn("upload failed, saving locally", "error", err)
	}

	path, err := s.saveLocal(name, document)
	if err != nil {
		return fmt.Errorf("save journal locally: %w", err)
	}
	s.logger.Info("journal saved", "path", path)
	result.LocalPath = path
	return nil
}

func (s *Service) saveLocal(name, document string) (string, error) {
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.opts.OutputDir, name)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func drivePath(period domain.Period) string {
	path := fmt.Sprintf("%d/%s", period.Start.Year(), period.Start.Month().String())
	if period.Kind == domain.PeriodDaily {
		path += "/Daily"
	}
	return path
}

func exportLocation(result domain.Result) string {
	if result.RemoteLink != "" {
		return result.RemoteLink
	}
	return result.LocalPath
}
