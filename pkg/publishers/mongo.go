package publishers

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoInserter is the part of *mongo.Collection the publisher calls.
type mongoInserter interface {
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// mongoPublisher stores each event as a document, one per persisted article.
type mongoPublisher struct {
	id         string
	client     *mongo.Client
	collection mongoInserter
	timeout    time.Duration
	log        Logger
}

func newMongoPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("publisher %q missing mongo configuration", cfg.ID)
	}
	timeout := time.Duration(cfg.Mongo.TimeoutSeconds) * time.Second

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &mongoPublisher{
		id:         cfg.ID,
		client:     client,
		collection: client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection),
		timeout:    timeout,
		log:        ensureLogger(log),
	}, nil
}

func (p *mongoPublisher) ID() string   { return p.id }
func (p *mongoPublisher) Type() string { return TypeMongo }

func (p *mongoPublisher) Publish(ctx context.Context, evt Event) error {
	insertCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.collection.InsertOne(insertCtx, evt)
	if err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}

	p.log.DebugObj("event stored in mongodb", "publisher_mongo_delivery", map[string]any{
		"inserted_id": fmt.Sprint(res.InsertedID),
		"url":         evt.URL,
	})
	return nil
}

func (p *mongoPublisher) Close(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.Disconnect(ctx)
}
