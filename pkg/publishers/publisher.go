package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Adda-Baaj/khobor-corpus/internal/domain"
	"github.com/Adda-Baaj/khobor-corpus/internal/logger"
)

// EventArticlePersisted is emitted once an article file has been written.
const EventArticlePersisted = "article.persisted"

// Logger is the structured logger publishers report through.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger { return logger.Ensure(log) }

// Publisher delivers events to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// closer is implemented by publishers holding client connections.
type closer interface {
	Close(ctx context.Context) error
}

// Event describes a persisted article. It carries the location of the text, not the text.
type Event struct {
	Type        string    `json:"type" bson:"type"`
	RunID       string    `json:"run_id" bson:"run_id"`
	Site        string    `json:"site" bson:"site"`
	URL         string    `json:"url" bson:"url"`
	Title       string    `json:"title" bson:"title"`
	Date        string    `json:"date" bson:"date"`
	Path        string    `json:"path" bson:"path"`
	Paragraphs  int       `json:"paragraphs" bson:"paragraphs"`
	PersistedAt time.Time `json:"persisted_at" bson:"persisted_at"`
}

// NewArticleEvent builds the article.persisted event for a written article.
func NewArticleEvent(runID string, article domain.Article, path string, at time.Time) Event {
	return Event{
		Type:        EventArticlePersisted,
		RunID:       runID,
		Site:        article.Site,
		URL:         article.URL,
		Title:       article.Title,
		Date:        article.Date,
		Path:        path,
		Paragraphs:  len(article.Paragraphs),
		PersistedAt: at.UTC(),
	}
}

// attributes are the routing attributes attached to queue messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"site":       e.Site,
	}
}

func marshalEvent(evt Event) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}

// Dispatcher fans events out to every publisher. Delivery is best effort: failures are
// logged and counted, never returned.
type Dispatcher struct {
	pubs []Publisher
	log  Logger
}

// NewDispatcher wraps pubs. A dispatcher without publishers drops every event.
func NewDispatcher(pubs []Publisher, log Logger) *Dispatcher {
	return &Dispatcher{pubs: pubs, log: ensureLogger(log)}
}

// Len reports how many publishers are attached.
func (d *Dispatcher) Len() int {
	if d == nil {
		return 0
	}
	return len(d.pubs)
}

// Publish sends evt to each publisher in turn and returns the number of failed deliveries.
func (d *Dispatcher) Publish(ctx context.Context, evt Event) int {
	if d == nil {
		return 0
	}

	failed := 0
	for _, p := range d.pubs {
		if err := p.Publish(ctx, evt); err != nil {
			failed++
			d.log.WarnObj("event delivery failed", "publisher_delivery_failed", map[string]any{
				"publisher_id":   p.ID(),
				"publisher_type": p.Type(),
				"event_type":     evt.Type,
				"url":            evt.URL,
				"error":          err.Error(),
			})
			continue
		}
		d.log.DebugObj("event delivered", "publisher_delivered", map[string]any{
			"publisher_id": p.ID(),
			"event_type":   evt.Type,
			"url":          evt.URL,
		})
	}
	return failed
}

// PublishArticle is the persist hook shape used by the crawler.
func (d *Dispatcher) PublishArticle(ctx context.Context, runID string, article domain.Article, path string) {
	d.Publish(ctx, NewArticleEvent(runID, article, path, time.Now()))
}

// Close releases publisher connections. Every publisher is closed even if one fails.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}

	var firstErr error
	for _, p := range d.pubs {
		c, ok := p.(closer)
		if !ok {
			continue
		}
		if err := c.Close(ctx); err != nil {
			d.log.WarnObj("publisher close failed", "publisher_close_failed", map[string]any{
				"publisher_id": p.ID(),
				"error":        err.Error(),
			})
			if firstErr == nil {
				firstErr = fmt.Errorf("close publisher %s: %w", p.ID(), err)
			}
		}
	}
	return firstErr
}
