package repositories

import (
	"context"
	"time"

	"github.com/warbler-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository stores the follow/like feed shown on /notifications
type ActivityRepository interface {
	Record(ctx context.Context, activity *models.Activity) error
	ListForRecipient(ctx context.Context, recipientID uint, limit int64) ([]models.Activity, error)
}

// MongoActivityRepository implements ActivityRepository for MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("activities")}
}

func (r *MongoActivityRepository) Record(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// ListForRecipient returns the newest activity addressed to recipientID
func (r *MongoActivityRepository) ListForRecipient(ctx context.Context, recipientID uint, limit int64) ([]models.Activity, error) {
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// NopActivityRepository is used when no MongoDB is configured.
type NopActivityRepository struct{}

func (NopActivityRepository) Record(context.Context, *models.Activity) error { return nil }

func (NopActivityRepository) ListForRecipient(context.Context, uint, int64) ([]models.Activity, error) {
	return []models.Activity{}, nil
}
