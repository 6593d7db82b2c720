package recommend

import (
	"context"

	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
	"github.com/kailas-cloud/dinerec/internal/index"
)

// Index is the read-only similarity index used for ranking.
type Index interface {
	Transform(text string) index.Vector
	Distance(id int, vec index.Vector) float64
	Neighbors(id, k int) ([]index.Neighbor, error)
}

// Cache stores result IDs per dataset fingerprint and criteria.
// Implementations swallow their own failures and report a miss.
type Cache interface {
	Get(ctx context.Context, fingerprint string, c *criteria.Criteria) ([]int, bool)
	Put(ctx context.Context, fingerprint string, c *criteria.Criteria, ids []int)
}
