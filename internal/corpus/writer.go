package corpus

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// DefaultTitleSuffixes are the site name tails stripped from page titles before slugging.
var DefaultTitleSuffixes = []string{
	" | CBC News",
	" | National Post",
	" | The Star",
}

// Writer persists articles as plain text files in a date-partitioned tree.
type Writer struct {
	suffixes []string
}

// NewWriter builds a Writer. A nil suffix list uses DefaultTitleSuffixes.
func NewWriter(suffixes []string) *Writer {
	if suffixes == nil {
		suffixes = DefaultTitleSuffixes
	}
	return &Writer{suffixes: append([]string(nil), suffixes...)}
}

// Slug derives the filename stem of a title: suffixes stripped, spaces and slashes turned
// into underscores, lowercased.
func (w *Writer) Slug(title string) string {
	for _, suffix := range w.suffixes {
		if suffix != "" {
			title = strings.ReplaceAll(title, suffix, "")
		}
	}
	title = strings.ReplaceAll(title, " ", "_")
	title = strings.ReplaceAll(title, "/", "_")
	return strings.ToLower(title)
}

// Path returns the file an article would be written to under siteRoot.
func (w *Writer) Path(article domain.Article, siteRoot string) string {
	return filepath.Join(siteRoot, article.Date, w.Slug(article.Title)+".txt")
}

// Write stores the article's paragraphs, each followed by a blank line, at
// siteRoot/{date}/{slug}.txt. An existing file at that path is truncated.
func (w *Writer) Write(article domain.Article, siteRoot string) (string, error) {
	path := w.Path(article, siteRoot)
	if w.Slug(article.Title) == "" {
		return "", &domain.WriteError{Path: path, Err: errors.New("title produces an empty filename")}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &domain.WriteError{Path: path, Err: err}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", &domain.WriteError{Path: path, Err: err}
	}

	buf := bufio.NewWriter(file)
	for _, par := range article.Paragraphs {
		if _, err := buf.WriteString(par); err != nil {
			file.Close()
			return "", &domain.WriteError{Path: path, Err: err}
		}
		if _, err := buf.WriteString("\n\n"); err != nil {
			file.Close()
			return "", &domain.WriteError{Path: path, Err: err}
		}
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return "", &domain.WriteError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &domain.WriteError{Path: path, Err: err}
	}
	return path, nil
}
