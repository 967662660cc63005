package domain

import "time"

// Domain contains core models shared across the crawler, the corpus tree and the ledger.

// Article is one fully extracted news article. It only exists once title, date and body
// were all found; partial articles are never built.
type Article struct {
	Site       string
	URL        string
	Title      string
	Paragraphs []string
	Date       string // DD-MM-YYYY unless legacy date output is enabled
}

// ArticleEntry is read-only metadata for an article file already persisted in the corpus tree.
type ArticleEntry struct {
	Date string
	Path string
	Site string
}

// Link outcome statuses.
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
)

// LinkOutcome records what happened to one discovered link.
type LinkOutcome struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RunReport summarises one site run.
type RunReport struct {
	RunID      string        `json:"run_id"`
	Site       string        `json:"site"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Discovered int           `json:"discovered"`
	Written    int           `json:"written"`
	Skipped    int           `json:"skipped"`
	Failed     string        `json:"failed,omitempty"` // discovery error, if the run aborted
	Outcomes   []LinkOutcome `json:"outcomes"`
}

// Clean reports whether every discovered link was written.
func (r *RunReport) Clean() bool {
	return r != nil && r.Failed == "" && r.Skipped == 0
}
