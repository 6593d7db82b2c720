package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
)

// criteriaFromQuery builds criteria from query parameters.
// An absent min_rating falls back to defaultRating.
func criteriaFromQuery(q url.Values, lim Options, defaultRating float64) (criteria.Criteria, error) {
	minRating := defaultRating
	if v := strings.TrimSpace(q.Get("min_rating")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria.Criteria{}, fmt.Errorf("%w: min_rating must be a number", domain.ErrInvalidCriteria)
		}
		minRating = f
	}

	limit, err := intParam(q, "limit", lim.DefaultLimit)
	if err != nil {
		return criteria.Criteria{}, err
	}
	if limit > lim.MaxLimit {
		limit = lim.MaxLimit
	}

	c, err := criteria.New(
		strings.TrimSpace(q.Get("category")),
		strings.TrimSpace(q.Get("price_level")),
		minRating,
		limit,
		criteria.Order(q.Get("order")),
	)
	if err != nil {
		return criteria.Criteria{}, fmt.Errorf("build criteria: %w", err)
	}
	return c, nil
}

// intParam parses a positive integer query parameter. Absent or zero means def.
func intParam(q url.Values, name string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidCriteria, name)
	}
	if n == 0 {
		return def, nil
	}
	return n, nil
}
