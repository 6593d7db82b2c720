package chi

import (
	"context"

	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
	healthuc "github.com/kailas-cloud/dinerec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/dinerec/internal/usecase/recommend"
)

// Recommender is the catalog surface used by the handlers.
type Recommender interface {
	Recommend(ctx context.Context, c *criteria.Criteria) []restaurant.Restaurant
	Get(id int) (restaurant.Restaurant, error)
	SimilarTo(id, k int) ([]recommenduc.Similar, error)
	Categories() []string
	PriceLevels() []string
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
