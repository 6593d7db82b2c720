package dinerec

// Order controls result ordering.
type Order string

// Order constants.
const (
	OrderDataset    Order = "dataset"
	OrderRating     Order = "rating"
	OrderSimilarity Order = "similarity"
)

// Query selects restaurants. PriceLevel is required; Limit 0 means 10.
type Query struct {
	Category   string // case-insensitive substring, empty matches all
	PriceLevel string // exact
	MinRating  float64
	Limit      int
	Order      Order
}

// Restaurant is a recommendation ready for display.
// Address and Phone carry a "not specified" marker when missing;
// Link falls back to a web search for the name.
type Restaurant struct {
	ID         int
	Name       string
	Category   string
	PriceLevel string
	Rating     float64
	Address    string
	Phone      string
	Link       string
}

// Neighbor is a similar restaurant with its cosine distance.
type Neighbor struct {
	Restaurant
	Distance float64
}

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status  string            // "ok", "degraded", "error"
	Records int               // loaded rows
	Skipped int               // rejected rows
	Checks  map[string]string // component → "ok"/"error"
}
