package ports

import (
	"context"
	"time"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
)

// FetchOptions narrows a message-window fetch.
type FetchOptions struct {
	// Channels restricts the fetch to the named channels; empty means
	// auto-detected work channels.
	Channels []string
	// UserName restricts the fetch to messages from one author.
	UserName string
}

// MessageSource pulls raw messages for a closed time window.
type MessageSource interface {
	FetchWindow(ctx context.Context, period domain.Period, opts FetchOptions) ([]domain.Message, error)
}

// GenerationOptions are the parameters forwarded to the AI model.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
	MIMEType    string
}

// ChatClient sends a prompt to the generative-AI model and returns the raw
// completion text. The caller must treat the output as untrusted free text.
type ChatClient interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// UploadRef identifies an uploaded document on the remote store.
type UploadRef struct {
	ID   string
	Link string
}

// Uploader pushes a finished journal to cloud storage. Failures are
// reported, never retried; the caller falls back to local persistence.
type Uploader interface {
	Upload(ctx context.Context, name string, payload []byte, folder string) (UploadRef, error)
}

// JournalRepository archives generated journals locally.
type JournalRepository interface {
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
	FindByPeriod(ctx context.Context, kind domain.PeriodKind, start time.Time) (*domain.JournalEntry, error)
	ListRecent(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}

// Scheduler controls when recurring journal runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
