package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrEmptyArticle is returned for article files with no content.
var ErrEmptyArticle = errors.New("article body empty")

// Tokenize lowercases text and splits it into words. Apostrophes inside words are kept.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// HeadlineTokens tokenizes the headline encoded in an article's file name.
func HeadlineTokens(path string) []string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Tokenize(strings.ReplaceAll(stem, "_", " "))
}

// BodyTokens reads and tokenizes an article file.
func BodyTokens(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyArticle)
	}
	return Tokenize(string(data)), nil
}
