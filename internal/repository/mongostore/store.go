// Package mongostore implements the user and engineer repositories on MongoDB.
//
// Documents are mapped with bson struct tags. Identifiers are UUID strings
// stored in _id, so records move between this store and the SQLite store
// without translation. Collection names and indexes live in this file.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/engineers/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers     = "users"
	ColEngineers = "engineers"
)

// Store is the MongoDB implementation of domain.Database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users     *UserRepository
	engineers *EngineerRepository
}

// NewStore connects to MongoDB and verifies the connection.
//
// uri: connection URI such as "mongodb://localhost:27017"
// dbName: database name such as "engineers"
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	s.users = &UserRepository{col: s.col(ColUsers)}
	s.engineers = &EngineerRepository{col: s.col(ColEngineers)}
	return s, nil
}

// Migrate creates the indexes the repositories rely on. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	return s.ensureIndexes(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() domain.UserRepository {
	return s.users
}

func (s *Store) Engineers() domain.EngineerRepository {
	return s.engineers
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "engineers", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
