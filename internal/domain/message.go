package domain

import "time"

// Message is a single chat message pulled from the workspace platform.
// All fields are optional at the source; absent values are defaulted so the
// classification layer never has to care about missing data.
type Message struct {
	AuthorID   string
	AuthorName string
	Text       string
	Channel    string
	Timestamp  time.Time
}

// Author returns the best available display name for the message author.
func (m Message) Author() string {
	if m.AuthorName != "" {
		return m.AuthorName
	}
	if m.AuthorID != "" {
		return m.AuthorID
	}
	return "Unknown"
}

// StatusTag summarizes the deployment-lifecycle stage of a work item.
type StatusTag string

const (
	StatusDeployed     StatusTag = "deployed"
	StatusHandedToTest StatusTag = "handed-to-test"
	StatusMerged       StatusTag = "merged"
)

// Label returns the display label rendered into journal lines.
func (t StatusTag) Label() string {
	switch t {
	case StatusDeployed:
		return "上線"
	case StatusHandedToTest:
		return "交測"
	default:
		return "分支合併"
	}
}

// Classification is the outcome of the status-tag classifier. Keyword holds
// the matched substring for diagnostics; empty for the MERGED fallback.
type Classification struct {
	Tag     StatusTag
	Keyword string
}

// ProjectDescription is the pair extracted from a structured message body.
type ProjectDescription struct {
	Project     string
	Description string
}

// WorkItem is one qualifying message rendered into a journal line.
// Immutable after construction; Author is empty when author display is off.
type WorkItem struct {
	Date        string
	Author      string
	Tag         StatusTag
	Project     string
	Description string
}

// PeriodKind distinguishes the reporting windows the service supports.
type PeriodKind string

const (
	PeriodWeekly PeriodKind = "weekly"
	PeriodDaily  PeriodKind = "daily"
)

// Period is a closed reporting time window.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// WeekOf returns the work-week period containing t: Monday 00:00 through
// Friday 23:59:59 in t's location. Weekend days are excluded by the window.
func WeekOf(t time.Time) Period {
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, -offset)
	friday := monday.AddDate(0, 0, 4).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return Period{Kind: PeriodWeekly, Start: monday, End: friday}
}

// DayOf returns the single-day period containing t.
func DayOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return Period{Kind: PeriodDaily, Start: start, End: end}
}

// Contains reports whether ts falls inside the period.
func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.Start) && !ts.After(p.End)
}

// JournalEntry is a generated journal persisted to the local archive.
type JournalEntry struct {
	ID             string
	Kind           PeriodKind
	PeriodStart    time.Time
	PeriodEnd      time.Time
	MessageCount   int
	Content        string
	ExportLocation string
	CreatedAt      time.Time
}

// Result reports the outcome of one journal generation run.
type Result struct {
	Entry             JournalEntry
	MessagesProcessed int
	LocalPath         string
	RemoteLink        string
	UsedAI            bool
}
