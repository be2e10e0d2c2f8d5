package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "threadtree"
	DefaultCollection = "graphs"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds connecting and the initial ping.
	Timeout time.Duration
}

// MongoStore stores graphs as documents in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// graphDocument is the stored form of a Record.
type graphDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
	NodeCount int       `bson:"node_count"`
	EdgeCount int       `bson:"edge_count"`
	Graph     []byte    `bson:"graph,omitempty"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Put implements Store.
func (s *MongoStore) Put(ctx context.Context, name string, g *digraph.Graph) (*Record, error) {
	data, err := encodeGraph(g)
	if err != nil {
		return nil, err
	}
	doc := graphDocument{
		ID:        NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Graph:     data,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert graph: %w", err)
	}
	rec := doc.record()
	rec.Graph = g
	return rec, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc graphDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find graph %s: %w", id, err)
	}

	g, err := decodeGraph(doc.Graph)
	if err != nil {
		return nil, fmt.Errorf("decode graph %s: %w", id, err)
	}
	rec := doc.record()
	rec.Graph = g
	return rec, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]*Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"graph": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	var docs []graphDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}

	out := make([]*Record, len(docs))
	for i := range docs {
		out[i] = docs[i].record()
	}
	return out, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete graph %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (d *graphDocument) record() *Record {
	return &Record{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		NodeCount: d.NodeCount,
		EdgeCount: d.EdgeCount,
	}
}

var _ Store = (*MongoStore)(nil)
