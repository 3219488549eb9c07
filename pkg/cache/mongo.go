package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/dci/pkg/errors"
)

// MongoOptions selects where a [MongoCache] keeps its documents.
type MongoOptions struct {
	// Database defaults to "dci".
	Database string
	// Collection defaults to "cache".
	Collection string
}

// MongoCache stores one document per entry. A TTL index on expires_at
// lets the server purge expired entries; Get also checks the expiry
// itself since the purge runs only once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri and ensures the TTL index exists.
func NewMongoCache(ctx context.Context, uri string, opts MongoOptions) (*MongoCache, error) {
	if err := errs.ValidateCacheURL(uri); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "connect mongodb")
	}
	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoCache{client: client, coll: coll}, nil
}

func (o MongoOptions) withDefaults() MongoOptions {
	if o.Database == "" {
		o.Database = "dci"
	}
	if o.Collection == "" {
		o.Collection = "cache"
	}
	return o
}

// Get retrieves a value.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo get %s: %w", key, err)
	}
	if entry.expired(time.Now()) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts a value.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := newMongoEntry(key, data, ttl, time.Now())
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

// Delete removes a value.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

// Clear drops every entry in the collection.
func (c *MongoCache) Clear(ctx context.Context) error {
	if _, err := c.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("mongo clear: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func newMongoEntry(key string, data []byte, ttl time.Duration, now time.Time) mongoEntry {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		at := now.Add(ttl)
		e.ExpiresAt = &at
	}
	return e
}

func (e mongoEntry) expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

var (
	_ Cache   = (*MongoCache)(nil)
	_ Clearer = (*MongoCache)(nil)
)
