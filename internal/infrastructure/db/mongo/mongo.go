package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Ping reports whether the primary is reachable. Used by readiness probes.
func Ping(db *mongo.Database) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	}
}

// objectID parses a hex id. ok is false for malformed ids, which callers treat
// as "not found".
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// sortSpec turns "field" / "-field" into a sort document restricted to allowed
// fields. Anything else falls back to newest first.
func sortSpec(sort string, allowed map[string]string) bson.D {
	dir := 1
	field := strings.TrimSpace(sort)
	if strings.HasPrefix(field, "-") {
		dir = -1
		field = field[1:]
	}
	if col, ok := allowed[field]; ok {
		return bson.D{{Key: col, Value: dir}, {Key: "_id", Value: dir}}
	}
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}
