package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchHistory is one recorded comparison attempt, success or failure.
type SearchHistory struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	URL           string             `json:"url" bson:"url"`
	Marketplace   string             `json:"marketplace" bson:"marketplace"`
	Source        string             `json:"source" bson:"source"`
	DetectedPrice *float64           `json:"detected_price" bson:"detected_price"`
	Status        string             `json:"status" bson:"status"`
	ErrorMessage  string             `json:"error_message,omitempty" bson:"error_message,omitempty"`
	Timestamp     time.Time          `json:"timestamp" bson:"timestamp"`
}
