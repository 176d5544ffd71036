package models

// AlternativeOffer represents one competing seller offer for the same product.
// Price is nil when the seller's price could not be determined; PriceDisplay is
// always populated ("N/A" for an unknown price).
type AlternativeOffer struct {
	Seller       string   `json:"seller" bson:"seller"`
	Price        *float64 `json:"price" bson:"price"`
	PriceDisplay string   `json:"price_display" bson:"price_display"`
	Link         string   `json:"link,omitempty" bson:"link,omitempty"`
	LogoURL      string   `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
}
