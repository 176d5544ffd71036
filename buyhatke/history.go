package buyhatke

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"PricePulse/models"
)

// HistoryStore persists one SearchHistory record per comparison attempt.
type HistoryStore struct {
	col *mongo.Collection
}

func NewHistoryStore(db *mongo.Database) *HistoryStore {
	return &HistoryStore{col: db.Collection("search_history")}
}

func (h *HistoryStore) Insert(ctx context.Context, record models.SearchHistory) error {
	_, err := h.col.InsertOne(ctx, record)
	return err
}

// Recent returns up to limit records, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int64) ([]models.SearchHistory, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := h.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]models.SearchHistory, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
