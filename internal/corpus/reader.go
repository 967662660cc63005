package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

// dirDateReplacer rewrites the month spellings older trees used in date directories.
// "March" must come before "Mar".
var dirDateReplacer = strings.NewReplacer(
	"March", "03",
	"Mar", "03",
	"Feb", "02",
)

// NormalizeDirDate applies the loader-side month rewrite to a date directory name.
func NormalizeDirDate(name string) string {
	return dirDateReplacer.Replace(name)
}

// Scan walks root/{site}/{date}/* and returns one entry per article file.
// Unreadable site or date directories are skipped; only an unreadable root is an error.
func Scan(root string) ([]domain.ArticleEntry, error) {
	siteDirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read corpus root: %w", err)
	}

	var entries []domain.ArticleEntry
	for _, siteDir := range siteDirs {
		if !siteDir.IsDir() {
			continue
		}
		entries = append(entries, scanSite(filepath.Join(root, siteDir.Name()), siteDir.Name())...)
	}
	return entries, nil
}

func scanSite(siteRoot, site string) []domain.ArticleEntry {
	dayDirs, err := os.ReadDir(siteRoot)
	if err != nil {
		return nil
	}

	var entries []domain.ArticleEntry
	for _, dayDir := range dayDirs {
		if !dayDir.IsDir() {
			continue
		}
		dayPath := filepath.Join(siteRoot, dayDir.Name())
		files, err := os.ReadDir(dayPath)
		if err != nil {
			continue
		}

		date := NormalizeDirDate(dayDir.Name())
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			entries = append(entries, domain.ArticleEntry{
				Date: date,
				Path: filepath.Join(dayPath, f.Name()),
				Site: site,
			})
		}
	}
	return entries
}
