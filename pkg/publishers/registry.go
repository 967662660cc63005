package publishers

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Builder turns a validated config entry into a live Publisher.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Factory resolves publisher types to builders.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewFactory returns a factory with the given builders registered.
func NewFactory(builders map[string]Builder) *Factory {
	f := &Factory{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		f.Register(typ, b)
	}
	return f
}

// DefaultFactory knows every built-in publisher type.
func DefaultFactory() *Factory {
	return NewFactory(map[string]Builder{
		TypeHTTP:  newHTTPPublisher,
		TypeQueue: newQueuePublisher,
		TypeMongo: newMongoPublisher,
	})
}

// Register binds typ to builder, replacing any previous binding.
func (f *Factory) Register(typ string, builder Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return
	}
	f.mu.Lock()
	f.builders[typ] = builder
	f.mu.Unlock()
}

// Build creates the publisher for cfg.
func (f *Factory) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	f.mu.RLock()
	builder, ok := f.builders[strings.ToLower(cfg.Type)]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}

	pub, err := builder(ctx, cfg, ensureLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
	}
	return pub, nil
}

// BuildDispatcher builds every enabled publisher of reg. Publishers built before a failure
// are closed again.
func (f *Factory) BuildDispatcher(ctx context.Context, reg *ConfigRegistry, log Logger) (*Dispatcher, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log = ensureLogger(log)

	var pubs []Publisher
	for _, cfg := range reg.Enabled() {
		pub, err := f.Build(ctx, cfg, log)
		if err != nil {
			_ = NewDispatcher(pubs, log).Close(ctx)
			return nil, err
		}
		log.InfoObj("publisher ready", "publisher_ready", map[string]any{
			"publisher_id":   pub.ID(),
			"publisher_type": pub.Type(),
		})
		pubs = append(pubs, pub)
	}
	return NewDispatcher(pubs, log), nil
}
