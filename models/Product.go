package models

// ScrapeResult represents the outcome of one product comparison: the canonical
// product data from the aggregator API plus the competing offers extracted from
// its tracker page.
type ScrapeResult struct {
	Title           string             `json:"title" bson:"title"`
	Price           *float64           `json:"price" bson:"price"`
	ImageURL        string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ThumbnailImages []string           `json:"thumbnail_images" bson:"thumbnail_images"`
	Source          string             `json:"source" bson:"source"`
	Marketplace     string             `json:"marketplace" bson:"marketplace"`
	TrackerURL      string             `json:"tracker_url,omitempty" bson:"tracker_url,omitempty"`
	Alternatives    []AlternativeOffer `json:"alternatives" bson:"alternatives"`
}
