package health

import (
	"context"

	"github.com/kailas-cloud/dinerec/internal/usecase/recommend"
)

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// CatalogStats reports the loaded catalog.
type CatalogStats interface {
	Stats() recommend.Stats
}
