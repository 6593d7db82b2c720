// Package criteria holds validated recommendation filters.
package criteria

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
)

// Criteria limits.
const (
	DefaultLimit  = 10
	MaxLimit      = 100
	MaxRatingBar  = 5.0
	MaxCategoryLn = 256
)

// Order is the result ordering policy.
type Order string

// Ordering policies.
const (
	// Dataset keeps table order (the default).
	Dataset Order = "dataset"
	// Rating sorts by descending rating, stable.
	Rating Order = "rating"
	// Similarity sorts by cosine distance to the criteria text.
	Similarity Order = "similarity"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Dataset || o == Rating || o == Similarity
}

// Criteria is a validated recommendation query.
type Criteria struct {
	category   string
	priceLevel string
	minRating  float64
	limit      int
	order      Order
}

// New validates and normalizes criteria.
// Defaults: limit=10, order=dataset. Limit is clamped to MaxLimit.
func New(category, priceLevel string, minRating float64, limit int, order Order) (Criteria, error) {
	if len(category) > MaxCategoryLn {
		return Criteria{}, fmt.Errorf("%w: category too long (max %d bytes)", domain.ErrInvalidCriteria, MaxCategoryLn)
	}
	if priceLevel == "" {
		return Criteria{}, fmt.Errorf("%w: price level is required", domain.ErrInvalidCriteria)
	}
	if math.IsNaN(minRating) || minRating < 0 || minRating > MaxRatingBar {
		return Criteria{}, fmt.Errorf("%w: min rating must be between 0 and %.0f", domain.ErrInvalidCriteria, MaxRatingBar)
	}
	if order == "" {
		order = Dataset
	}
	if !order.IsValid() {
		return Criteria{}, fmt.Errorf("%w: invalid order %q", domain.ErrInvalidCriteria, order)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Criteria{
		category:   category,
		priceLevel: priceLevel,
		minRating:  minRating,
		limit:      limit,
		order:      order,
	}, nil
}

// Category returns the category substring.
func (c *Criteria) Category() string { return c.category }

// PriceLevel returns the exact price tier.
func (c *Criteria) PriceLevel() string { return c.priceLevel }

// MinRating returns the inclusive rating lower bound.
func (c *Criteria) MinRating() float64 { return c.minRating }

// Limit returns the result cap.
func (c *Criteria) Limit() int { return c.limit }

// Order returns the ordering policy.
func (c *Criteria) Order() Order { return c.order }

// Text returns the criteria as vectorizer input.
func (c *Criteria) Text() string {
	return c.category + " " + c.priceLevel
}

// Key returns a canonical representation used for cache keys.
func (c *Criteria) Key() string {
	return fmt.Sprintf("c=%q|p=%q|r=%g|l=%d|o=%q", c.category, c.priceLevel, c.minRating, c.limit, c.order)
}

// Matcher returns the filter predicate. The returned func owns its case folder
// and must not be shared between goroutines.
func (c *Criteria) Matcher() func(r *restaurant.Restaurant) bool {
	folder := cases.Fold()
	needle := folder.String(norm.NFC.String(c.category))
	return func(r *restaurant.Restaurant) bool {
		if r.PriceLevel != c.priceLevel {
			return false
		}
		if r.Rating < c.minRating {
			return false
		}
		if needle == "" {
			return true
		}
		return strings.Contains(folder.String(norm.NFC.String(r.Category)), needle)
	}
}
