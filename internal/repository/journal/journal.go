package journal

import (
	"context"
	"time"

	mg "autocontract/internal/config/connections/mongo"
	"autocontract/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "document_journal"

type Entry struct {
	ID             any       `bson:"_id,omitempty" json:"id"`
	Kind           string    `bson:"kind" json:"kind"`
	ClientID       int       `bson:"client_id" json:"client_id"`
	FullName       string    `bson:"full_name" json:"full_name"`
	ContractNumber string    `bson:"contract_number,omitempty" json:"contract_number,omitempty"`
	FilePath       string    `bson:"file_path,omitempty" json:"file_path,omitempty"`
	ArchivePath    string    `bson:"archive_path,omitempty" json:"archive_path,omitempty"`
	Operator       string    `bson:"operator,omitempty" json:"operator,omitempty"`
	Status         string    `bson:"status" json:"status"`
	Errors         string    `bson:"errors,omitempty" json:"errors,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type Journal struct {
	MG *mg.Mongo
}

func New(m *mg.Mongo) *Journal { return &Journal{MG: m} }

func (j *Journal) Record(ctx context.Context, e models.JournalEntry) error {
	if j == nil || j.MG == nil || j.MG.Database == nil {
		return mongo.ErrClientDisconnected
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = "done"
	}

	doc := bson.D{
		{Key: "kind", Value: string(e.Kind)},
		{Key: "client_id", Value: e.ClientID},
		{Key: "full_name", Value: e.FullName},
		{Key: "contract_number", Value: e.ContractNumber},
		{Key: "file_path", Value: e.FilePath},
		{Key: "archive_path", Value: e.ArchivePath},
		{Key: "operator", Value: e.Operator},
		{Key: "status", Value: e.Status},
		{Key: "errors", Value: e.Error},
		{Key: "created_at", Value: e.CreatedAt},
	}

	_, err := j.MG.Database.Collection(Collection).InsertOne(ctx, doc, options.InsertOne())
	return err
}

// List returns entries newest first, optionally filtered by kind.
func (j *Journal) List(ctx context.Context, kind string, limit, skip int64) ([]Entry, int64, error) {
	if j == nil || j.MG == nil || j.MG.Database == nil {
		return nil, 0, mongo.ErrClientDisconnected
	}
	coll := j.MG.Database.Collection(Collection)

	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	entries := make([]Entry, 0)
	for cur.Next(ctx) {
		var e Entry
		if err := cur.Decode(&e); err != nil {
			continue
		}
		if oid, ok := e.ID.(primitive.ObjectID); ok {
			e.ID = oid.Hex()
		}
		entries = append(entries, e)
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		total = int64(len(entries))
	}
	return entries, total, nil
}
