package models

import "time"

// Speaker identifies who produced a Turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is a single entry of a conversation history.
type Turn struct {
	Speaker Speaker   `bson:"speaker" json:"speaker"`
	Text    string    `bson:"text"    json:"text"`
	At      time.Time `bson:"at"      json:"at"`
}

// Transcript is the archived, append-only log of one chat session.
type Transcript struct {
	ID        string    `bson:"_id"        json:"session_id"`
	Turns     []Turn    `bson:"turns"      json:"turns"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GuideChunk is one indexed passage of the travel guide.
type GuideChunk struct {
	ID     string  `bson:"_id"    json:"id"`
	Source string  `bson:"source" json:"source"`
	Page   int     `bson:"page"   json:"page"`
	Text   string  `bson:"text"   json:"text"`
	Score  float64 `bson:"score"  json:"score"`
}
