package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
)

// DefaultMongoCollection is the collection used when none is configured.
const DefaultMongoCollection = "maps"

// MongoStore keeps records in a MongoDB collection. The map itself is
// stored as its JSON encoding in the "map" field so grids keep their
// compact row form.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// mongoDoc is the stored document: the record summary plus the encoded map.
type mongoDoc struct {
	Record  `bson:",inline"`
	Seed    int64  `bson:"seed"`
	MapJSON string `bson:"map"`
}

// OpenMongo connects to uri and uses database/collection for records.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec, s.now()); err != nil {
		return err
	}
	m, err := json.Marshal(rec.Map)
	if err != nil {
		return err
	}
	doc := mongoDoc{Record: rec.Summary(), Seed: int64(rec.Seed), MapJSON: string(m)}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return storageErr(err, "save map")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateMapID(id); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get map")
	}

	var m dungeon.Map
	if err := json.Unmarshal([]byte(doc.MapJSON), &m); err != nil {
		return nil, storageErr(err, "decode map")
	}
	rec := doc.record()
	rec.Map = &m
	return &rec, nil
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	opts = opts.normalize()
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit)).
		SetProjection(bson.M{"map": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, find)
	if err != nil {
		return nil, storageErr(err, "list maps")
	}
	defer cur.Close(ctx)

	out := []Record{}
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, storageErr(err, "decode map")
		}
		out = append(out, doc.record())
	}
	if err := cur.Err(); err != nil {
		return nil, storageErr(err, "list maps")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateMapID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr(err, "delete map")
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (d mongoDoc) record() Record {
	rec := d.Record
	rec.Seed = uint64(d.Seed)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec
}

var _ Store = (*MongoStore)(nil)
