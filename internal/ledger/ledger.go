package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
)

var runsBucket = []byte("runs")

// Ledger is an append-only record of site runs kept in a bbolt file.
type Ledger struct {
	db *bolt.DB
}

// Open creates or opens the ledger at path.
func Open(path string) (*Ledger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying file.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// runKey orders runs by start time; the run id keeps keys unique.
func runKey(r *domain.RunReport) []byte {
	return []byte(r.StartedAt.UTC().Format(time.RFC3339Nano) + "/" + r.RunID)
}

// Record stores a run report. Recording the same run twice overwrites it.
func (l *Ledger) Record(report *domain.RunReport) error {
	if report == nil || report.RunID == "" {
		return errors.New("run report has no run id")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put(runKey(report), payload)
	})
}

// Recent returns up to limit reports, newest first. A limit of zero or less returns all.
// Reports can be narrowed to one site.
func (l *Ledger) Recent(limit int, site string) ([]domain.RunReport, error) {
	var out []domain.RunReport
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r domain.RunReport
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode run %s: %w", k, err)
			}
			if site != "" && r.Site != site {
				continue
			}
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
