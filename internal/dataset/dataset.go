// Package dataset loads the restaurant table once per process.
// CSV and Parquet inputs are supported; ratings come from an injected source.
package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
	logpkg "github.com/kailas-cloud/dinerec/internal/logger"
)

// DefaultSeed is the rating seed used when none is configured.
const DefaultSeed = 42

// Column names.
const (
	colName       = "name"
	colCategory   = "category"
	colPriceLevel = "price_level"
	colStreet     = "street"
	colPhone      = "phone"
	colURL        = "url"
	colRating     = "rating"
)

// Skip reasons reported in Dataset.SkipReasons.
const (
	SkipMissingName       = "missing_name"
	SkipMissingCategory   = "missing_category"
	SkipMissingPriceLevel = "missing_price_level"
	SkipFieldCount        = "field_count"
	SkipMalformed         = "malformed"
	SkipBadRating         = "bad_rating"
)

var requiredColumns = []string{colName, colCategory, colPriceLevel}

// RatingSource yields uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RatingSource interface {
	Float64() float64
}

// NewRatingSource returns a deterministic source for the given seed.
func NewRatingSource(seed uint64) RatingSource {
	return rand.New(rand.NewPCG(seed, seed))
}

// Options controls a load.
type Options struct {
	// Seed feeds the default rating source and the fingerprint.
	Seed uint64
	// Ratings overrides the seeded source (tests inject fakes here).
	Ratings RatingSource
	// UseSourceRating parses the file's rating column instead of drawing one.
	UseSourceRating bool
}

// Dataset is the immutable loaded table.
type Dataset struct {
	Records     []restaurant.Restaurant
	Skipped     int
	SkipReasons map[string]int
	Source      string
	Fingerprint string
}

// Load reads the dataset at path. The format is chosen by file extension:
// .parquet is read as Parquet, anything else as CSV.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	logger := logpkg.FromContext(ctx)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrDataUnavailable, path, err)
	}

	if opts.Ratings == nil {
		opts.Ratings = NewRatingSource(opts.Seed)
	}
	b := newBuilder(opts)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		err = readParquet(data, b)
	default:
		err = readCSV(data, b)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, path, err)
	}

	ds := &Dataset{
		Records:     b.records,
		Skipped:     b.skipped,
		SkipReasons: b.reasons,
		Source:      path,
		Fingerprint: fingerprint(data, opts),
	}

	logger.Info("Dataset loaded",
		zap.String("path", path),
		zap.Int("records", len(ds.Records)),
		zap.Int("skipped", ds.Skipped),
	)
	for reason, n := range ds.SkipReasons {
		logger.Warn("Dataset rows skipped", zap.String("reason", reason), zap.Int("count", n))
	}
	return ds, nil
}

// Get returns the record with the given ID.
func (d *Dataset) Get(id int) (restaurant.Restaurant, bool) {
	if id < 0 || id >= len(d.Records) {
		return restaurant.Restaurant{}, false
	}
	return d.Records[id], true
}

// Categories returns distinct non-blank categories in first-seen order.
func (d *Dataset) Categories() []string {
	return d.distinct(func(r *restaurant.Restaurant) string { return r.Category })
}

// PriceLevels returns distinct price levels in first-seen order.
func (d *Dataset) PriceLevels() []string {
	return d.distinct(func(r *restaurant.Restaurant) string { return r.PriceLevel })
}

func (d *Dataset) distinct(get func(r *restaurant.Restaurant) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range d.Records {
		v := get(&d.Records[i])
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// rawRow is one input row before validation. Absent optional values are empty.
type rawRow struct {
	name       string
	category   string
	priceLevel string
	street     string
	phone      string
	url        string
	rating     string
}

// builder turns raw rows into records and counts skips.
type builder struct {
	opts    Options
	records []restaurant.Restaurant
	skipped int
	reasons map[string]int
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts, reasons: make(map[string]int)}
}

func (b *builder) skip(reason string) {
	b.skipped++
	b.reasons[reason]++
}

func (b *builder) add(row *rawRow) {
	switch {
	case strings.TrimSpace(row.name) == "":
		b.skip(SkipMissingName)
		return
	case strings.TrimSpace(row.category) == "":
		b.skip(SkipMissingCategory)
		return
	case strings.TrimSpace(row.priceLevel) == "":
		b.skip(SkipMissingPriceLevel)
		return
	}

	var rating float64
	if b.opts.UseSourceRating {
		r, err := strconv.ParseFloat(strings.TrimSpace(row.rating), 64)
		if err != nil || math.IsNaN(r) || r < restaurant.MinRating || r > restaurant.MaxRating {
			b.skip(SkipBadRating)
			return
		}
		rating = r
	} else {
		rating = restaurant.MinRating + (restaurant.MaxRating-restaurant.MinRating)*b.opts.Ratings.Float64()
	}

	b.records = append(b.records, restaurant.New(
		len(b.records), row.name, row.category, row.priceLevel,
		row.street, row.phone, row.url, rating,
	))
}

// checkColumns reports the first required column missing from present.
// The rating column is required only when source ratings are used.
func (b *builder) checkColumns(present map[string]int) error {
	required := requiredColumns
	if b.opts.UseSourceRating {
		required = append(required[:len(required):len(required)], colRating)
	}
	for _, c := range required {
		if _, ok := present[c]; !ok {
			return fmt.Errorf("missing required column %q", c)
		}
	}
	return nil
}

func fingerprint(data []byte, opts Options) string {
	h := sha256.New()
	h.Write(data)
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], opts.Seed)
	h.Write(seed[:])
	if opts.UseSourceRating {
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}
