package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityFollow = "follow"
	ActivityLike   = "like"
)

// Activity is a feed entry stored in MongoDB telling a user someone followed
// them or liked one of their messages.
type Activity struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	ActorID     uint               `json:"actor_id" bson:"actor_id"`
	RecipientID uint               `json:"recipient_id" bson:"recipient_id"`
	MessageID   uint               `json:"message_id,omitempty" bson:"message_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
