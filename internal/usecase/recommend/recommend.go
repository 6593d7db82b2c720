package recommend

import (
	"sort"

	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
)

// Recommend selects records matching c and returns at most c.Limit() of them.
// Dataset order keeps table order; rating order sorts by descending rating;
// similarity order sorts by cosine distance to the criteria text and falls
// back to table order when idx is nil. Pure: records are not modified.
func Recommend(records []restaurant.Restaurant, c *criteria.Criteria, idx Index) []restaurant.Restaurant {
	match := c.Matcher()
	limit := c.Limit()
	ordered := c.Order() != criteria.Dataset && !(c.Order() == criteria.Similarity && idx == nil)

	out := make([]restaurant.Restaurant, 0)
	for i := range records {
		if !match(&records[i]) {
			continue
		}
		out = append(out, records[i])
		if !ordered && len(out) == limit {
			return out
		}
	}

	switch {
	case c.Order() == criteria.Rating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case c.Order() == criteria.Similarity && idx != nil:
		query := idx.Transform(c.Text())
		dist := make(map[int]float64, len(out))
		for i := range out {
			dist[out[i].ID] = idx.Distance(out[i].ID, query)
		}
		sort.SliceStable(out, func(i, j int) bool { return dist[out[i].ID] < dist[out[j].ID] })
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
