// Package restaurant holds the loaded restaurant row.
package restaurant

import "strconv"

// Rating bounds for the synthetic placeholder score.
const (
	MinRating = 3.0
	MaxRating = 5.0
)

// Restaurant is one row of the dataset. Optional columns are empty when absent.
type Restaurant struct {
	ID               int
	Name             string
	Category         string
	PriceLevel       string
	Street           string
	Phone            string
	URL              string
	Rating           float64
	CombinedFeatures string
}

// New builds a restaurant and derives its combined feature text.
func New(id int, name, category, priceLevel, street, phone, url string, rating float64) Restaurant {
	return Restaurant{
		ID:               id,
		Name:             name,
		Category:         category,
		PriceLevel:       priceLevel,
		Street:           street,
		Phone:            phone,
		URL:              url,
		Rating:           rating,
		CombinedFeatures: CombineFeatures(category, priceLevel, rating),
	}
}

// CombineFeatures joins category, price level and rating into vectorizer input.
func CombineFeatures(category, priceLevel string, rating float64) string {
	return category + " " + priceLevel + " " + strconv.FormatFloat(rating, 'f', -1, 64)
}
