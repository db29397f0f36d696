package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ahmednasr/namastebot/internal/models"
)

func TestVectorSearchPipeline(t *testing.T) {
	vec := []float32{0.1, 0.2, 0.3}

	p := vectorSearchPipeline("guide_vector_index", vec, 3)

	require.Len(t, p, 2)
	stage := p[0][0]
	assert.Equal(t, "$vectorSearch", stage.Key)
	search := stage.Value.(bson.D).Map()
	assert.Equal(t, "guide_vector_index", search["index"])
	assert.Equal(t, vec, search["queryVector"])
	assert.Equal(t, 30, search["numCandidates"])
	assert.Equal(t, 3, search["limit"])
	assert.Equal(t, "$project", p[1][0].Key)
}

func TestAppendTurnsUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	turns := []models.Turn{
		{Speaker: models.SpeakerUser, Text: "vegetarian", At: now},
		{Speaker: models.SpeakerAssistant, Text: "Try Da Enzo.", At: now},
	}

	update := appendTurnsUpdate(turns, now)

	push := update["$push"].(bson.M)["turns"].(bson.M)
	assert.Equal(t, turns, push["$each"])
	assert.Equal(t, now, update["$set"].(bson.M)["updated_at"])
	assert.Equal(t, now, update["$setOnInsert"].(bson.M)["created_at"])

	_, err := bson.Marshal(update)
	assert.NoError(t, err)
}
