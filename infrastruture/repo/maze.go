package repo

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrMazeNotFound = errors.New("maze not found")
)

var _ i.MazeArchive = &MazeRepo{}

// mazeDocument is the BSON form of an archived maze.
type mazeDocument struct {
	ID         string            `bson:"_id"`
	Width      int               `bson:"width"`
	Height     int               `bson:"height"`
	Seed       int64             `bson:"seed"`
	Steps      int               `bson:"steps"`
	Record     generation.Record `bson:"record"`
	ArchivedAt time.Time         `bson:"archivedAt"`
}

// MazeRepo handles the persistence of completed mazes.
type MazeRepo struct {
	collection *mongo.Collection
}

// NewMazeRepo creates a new MazeRepo with the given MongoDB client, database name, and collection name.
func NewMazeRepo(client *mongo.Client, dbName, collectionName string) *MazeRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &MazeRepo{
		collection: collection,
	}
}

// Save inserts or updates an archived maze.
func (m *MazeRepo) Save(ctx context.Context, id uuid.UUID, rec generation.Record) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	doc := newMazeDocument(id, rec, time.Now())
	filter := bson.M{"_id": doc.ID}
	update := bson.M{
		"$set": bson.M{
			"width":      doc.Width,
			"height":     doc.Height,
			"seed":       doc.Seed,
			"steps":      doc.Steps,
			"record":     doc.Record,
			"archivedAt": doc.ArchivedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByID retrieves an archived maze by its generation ID.
// Returns an error if the maze is not found or if an unexpected error occurs.
func (m *MazeRepo) ByID(ctx context.Context, id uuid.UUID) (generation.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": id.String()}
	var doc mazeDocument
	if err := m.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return generation.Record{}, ErrMazeNotFound
		}
		return generation.Record{}, errors.New("unexpected error: " + err.Error())
	}
	return doc.Record, nil
}

func newMazeDocument(id uuid.UUID, rec generation.Record, at time.Time) mazeDocument {
	return mazeDocument{
		ID:         id.String(),
		Width:      rec.State.Width,
		Height:     rec.State.Height,
		Seed:       rec.Seed,
		Steps:      rec.Steps,
		Record:     rec,
		ArchivedAt: at.UTC(),
	}
}
