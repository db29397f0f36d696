package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/namastebot/internal/models"
)

// GuideChunks runs Atlas Vector Search over the indexed travel guide.
type GuideChunks struct {
	col       *mongo.Collection
	vectorIdx string // name of Atlas Vector Search index
}

// NewGuideChunks wires the collection.
//
// Expected schema:
//
//	guide_chunks
//	  { _id: ObjectId, source: string, page: int, text: string, vector: []float32 }
func NewGuideChunks(db *mongo.Database, collection, vectorIdx string) *GuideChunks {
	return &GuideChunks{
		col:       db.Collection(collection),
		vectorIdx: vectorIdx,
	}
}

// TopChunks returns the k passages most similar to queryVec, best first.
func (r *GuideChunks) TopChunks(ctx context.Context, queryVec []float32, k int) ([]models.GuideChunk, error) {
	cur, err := r.col.Aggregate(ctx, vectorSearchPipeline(r.vectorIdx, queryVec, k))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", r.col.Name(), err)
	}
	defer cur.Close(ctx)

	var chunks []models.GuideChunk
	if err := cur.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("decode chunks: %w", err)
	}
	return chunks, nil
}

func vectorSearchPipeline(index string, queryVec []float32, k int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "queryVector", Value: queryVec},
			{Key: "path", Value: "vector"},
			{Key: "numCandidates", Value: k * 10},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "source", Value: 1},
			{Key: "page", Value: 1},
			{Key: "text", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
