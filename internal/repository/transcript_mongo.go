package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahmednasr/namastebot/internal/models"
)

// TranscriptRepository archives completed turns, one document per session.
// Nothing is ever read back into a live conversation.
type TranscriptRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewTranscriptRepository returns a repository on the given collection.
func NewTranscriptRepository(db *mongo.Database, collection string) *TranscriptRepository {
	return &TranscriptRepository{
		col: db.Collection(collection),
		now: time.Now,
	}
}

// Append pushes turns onto the session's transcript, creating it if needed.
func (r *TranscriptRepository) Append(ctx context.Context, sessionID string, turns ...models.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		appendTurnsUpdate(turns, r.now()),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("append transcript %s: %w", sessionID, err)
	}
	return nil
}

// Find loads an archived transcript for offline review.
func (r *TranscriptRepository) Find(ctx context.Context, sessionID string) (models.Transcript, error) {
	var t models.Transcript
	err := r.col.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Transcript{}, nil
	}
	if err != nil {
		return models.Transcript{}, fmt.Errorf("find transcript %s: %w", sessionID, err)
	}
	return t, nil
}

func appendTurnsUpdate(turns []models.Turn, now time.Time) bson.M {
	return bson.M{
		"$push":        bson.M{"turns": bson.M{"$each": turns}},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
}
