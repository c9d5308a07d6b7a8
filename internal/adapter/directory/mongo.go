package directory

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/charter-search/charter-availability/internal/domain"
)

// CollectionName is where operator documents live.
const CollectionName = "charters"

// Mongo lists operators from a MongoDB collection on every call, so edits take
// effect without a restart. Secrets are never stored in the database; documents
// name the environment variable holding them in secretEnv.
type Mongo struct {
	collection *mongo.Collection
	lookup     func(string) string
}

// NewMongo creates a directory over db's charters collection.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{collection: db.Collection(CollectionName), lookup: os.Getenv}
}

// List returns enabled operators ordered by id.
func (m *Mongo) List(ctx context.Context) ([]domain.Operator, error) {
	filter := bson.M{"enabled": bson.M{"$ne": false}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find operators: %w", err)
	}
	defer cursor.Close(ctx)

	var records []record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode operators: %w", err)
	}

	operators := make([]domain.Operator, 0, len(records))
	for _, r := range records {
		if r.ID == "" || !r.enabled() {
			continue
		}
		operators = append(operators, r.operator(m.lookup))
	}
	return operators, nil
}

var _ domain.OperatorDirectory = (*Mongo)(nil)
