package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a Store backed by one MongoDB collection per table.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a MongoStore on db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureIndexes creates a unique index on each table's key attributes.
func (s *MongoStore) EnsureIndexes(ctx context.Context, tables ...Table) error {
	for _, t := range tables {
		keys := bson.D{{Key: t.PartitionKey, Value: 1}}
		if t.SortKey != "" {
			keys = append(keys, bson.E{Key: t.SortKey, Value: 1})
		}
		_, err := s.c(t).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("mongo index %s: %w", t.Name, err)
		}
	}
	return nil
}

func (s *MongoStore) c(t Table) *mongo.Collection {
	return s.db.Collection(t.Name)
}

func (s *MongoStore) Get(ctx context.Context, t Table, k Key, out any) error {
	err := s.c(t).FindOne(ctx, keyFilter(t, k)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("mongo get %s: %w", t.Name, err)
	}
	return nil
}

func (s *MongoStore) Put(ctx context.Context, t Table, item any) error {
	k, err := bsonKey(t, item)
	if err != nil {
		return err
	}
	_, err = s.c(t).ReplaceOne(ctx, keyFilter(t, k), item, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo put %s: %w", t.Name, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, t Table, k Key) error {
	if _, err := s.c(t).DeleteOne(ctx, keyFilter(t, k)); err != nil {
		return fmt.Errorf("mongo delete %s: %w", t.Name, err)
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, t Table, q Query, out any) error {
	filter := bson.M{t.PartitionKey: q.Partition}
	if q.SortPrefix != "" && t.SortKey != "" {
		filter[t.SortKey] = bson.M{"$regex": "^" + regexp.QuoteMeta(q.SortPrefix)}
	}
	find := options.Find()
	if t.SortKey != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		find.SetSort(bson.D{{Key: t.SortKey, Value: dir}})
	}
	return s.findAll(ctx, t, "query", filter, find, out)
}

func (s *MongoStore) Scan(ctx context.Context, t Table, f Filter, out any) error {
	filter := bson.M{}
	for name, v := range f {
		filter[name] = v
	}
	sortBy := bson.D{{Key: t.PartitionKey, Value: 1}}
	if t.SortKey != "" {
		sortBy = append(sortBy, bson.E{Key: t.SortKey, Value: 1})
	}
	return s.findAll(ctx, t, "scan", filter, options.Find().SetSort(sortBy), out)
}

func (s *MongoStore) findAll(ctx context.Context, t Table, op string, filter bson.M, find *options.FindOptions, out any) error {
	cur, err := s.c(t).Find(ctx, filter, find)
	if err != nil {
		return fmt.Errorf("mongo %s %s: %w", op, t.Name, err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("mongo %s %s: %w", op, t.Name, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, t Table, k Key, set map[string]any, remove ...string) error {
	if len(set) == 0 && len(remove) == 0 {
		return nil
	}
	upd := bson.M{}
	if len(set) > 0 {
		upd["$set"] = bson.M(set)
	}
	if len(remove) > 0 {
		unset := bson.M{}
		for _, name := range remove {
			unset[name] = ""
		}
		upd["$unset"] = unset
	}
	_, err := s.c(t).UpdateOne(ctx, keyFilter(t, k), upd, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo update %s: %w", t.Name, err)
	}
	return nil
}

func (s *MongoStore) BatchPut(ctx context.Context, t Table, items []any) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > MaxBatchSize {
		return fmt.Errorf("%w: %d items", ErrBatchTooLarge, len(items))
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		k, err := bsonKey(t, it)
		if err != nil {
			return err
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(keyFilter(t, k)).
			SetReplacement(it).
			SetUpsert(true))
	}
	if _, err := s.c(t).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("mongo batch %s: %w", t.Name, err)
	}
	return nil
}

func keyFilter(t Table, k Key) bson.D {
	f := bson.D{{Key: t.PartitionKey, Value: k.Partition}}
	if t.SortKey != "" {
		f = append(f, bson.E{Key: t.SortKey, Value: k.Sort})
	}
	return f
}

// bsonKey reads the key attributes from item's BSON encoding.
func bsonKey(t Table, item any) (Key, error) {
	raw, err := bson.Marshal(item)
	if err != nil {
		return Key{}, fmt.Errorf("encode record: %w", err)
	}
	doc := bson.Raw(raw)
	pk, ok := doc.Lookup(t.PartitionKey).StringValueOK()
	if !ok || pk == "" {
		return Key{}, fmt.Errorf("%w: %s", ErrMissingKey, t.PartitionKey)
	}
	k := Key{Partition: pk}
	if t.SortKey != "" {
		sk, ok := doc.Lookup(t.SortKey).StringValueOK()
		if !ok || sk == "" {
			return Key{}, fmt.Errorf("%w: %s", ErrMissingKey, t.SortKey)
		}
		k.Sort = sk
	}
	return k, nil
}
