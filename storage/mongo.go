package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	Register("mongo", func(ctx context.Context, kwargs map[string]string) (Storage, error) {
		uri, err := requiredOption(kwargs, "mongo", "uri")
		if err != nil {
			return nil, err
		}
		return NewMongo(ctx, uri,
			option(kwargs, "database", "fluxdocs"),
			option(kwargs, "collection", "offline_docs"),
			option(kwargs, "base_url", "/"))
	})
}

type mongoFile struct {
	Name      string    `bson:"name"`
	Content   []byte    `bson:"content"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores files as documents of a single collection
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	baseURL    string
}

// NewMongo connects to MongoDB and ensures a unique index on file names
func NewMongo(ctx context.Context, uri, databaseName, collectionName, baseURL string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(databaseName).Collection(collectionName)

	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		// Mongo will error if the index already exists with other options
		var commandError mongo.CommandError
		if !errors.As(err, &commandError) || commandError.Code != 86 {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	return &Mongo{
		client:     client,
		collection: collection,
		baseURL:    baseURL,
	}, nil
}

// Exists reports whether name is a stored file or a prefix of one
func (db *Mongo) Exists(ctx context.Context, name string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	name = CleanName(name)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": name},
		bson.M{"name": prefixRegex(name)},
	}}
	count, err := db.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", name, err)
	}
	return count > 0, nil
}

// ListDir returns the immediate children of name
func (db *Mongo) ListDir(ctx context.Context, name string) ([]string, []string, error) {
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	name = CleanName(name)
	findOptions := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.M{"name": 1})

	cursor, err := db.collection.Find(ctx, bson.M{"name": prefixRegex(name)}, findOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	var found []mongoFile
	if err := cursor.All(ctx, &found); err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", name, err)
	}

	names := make([]string, len(found))
	for i, file := range found {
		names[i] = file.Name
	}

	dirs, files := listChildren(name, names)
	return dirs, files, nil
}

// Delete removes a stored file
func (db *Mongo) Delete(ctx context.Context, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	name = CleanName(name)
	result, err := db.collection.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Save upserts content under name
func (db *Mongo) Save(ctx context.Context, name string, content []byte) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	name = CleanName(name)
	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now().UTC()}}
	_, err := db.collection.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	return name, nil
}

// URL returns the base URL joined with name
func (db *Mongo) URL(name string) string {
	return JoinURL(db.baseURL, name)
}

// Open returns the stored content of name
func (db *Mongo) Open(ctx context.Context, name string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	name = CleanName(name)
	var file mongoFile
	if err := db.collection.FindOne(ctx, bson.M{"name": name}).Decode(&file); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return file.Content, nil
}

// Close disconnects the client
func (db *Mongo) Close() error {
	return db.client.Disconnect(context.Background())
}

// prefixRegex matches every name below dir
func prefixRegex(dir string) primitive.Regex {
	if dir == "" {
		return primitive.Regex{Pattern: "^."}
	}
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(dir+"/")}
}
