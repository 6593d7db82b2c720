package dinerec

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

const testCSV = `name,category,price_level,street,phone,url,rating
Krua,Thai Restaurant,$$,Nimman,053-111,https://krua.example,4.5
Hana,Japanese Restaurant,$$,,,-,4.9
Som Tam,Thai Street Food,$$,Old City,,,3.2
Baan,Thai Restaurant,$$,,,,4.8
Steak Lab,Steakhouse,$$$$,Tha Phae,,,4.0
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restaurants.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithDataset(writeCSV(t, testCSV)), WithSourceRating(), WithLogger(zap.NewNop())}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_NoDataset(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error when no dataset provided")
	}
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(context.Background(), WithDataset(filepath.Join(t.TempDir(), "nope.csv")))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestRecommend_DatasetOrder(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Recommend(context.Background(), Query{Category: "thai", PriceLevel: "$$", MinRating: 3.5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res) != 2 || res[0].Name != "Krua" || res[1].Name != "Baan" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res[0].Link != "https://krua.example" || res[0].Rating != 4.5 {
		t.Errorf("unexpected record: %+v", res[0])
	}
	if res[1].Address != "ไม่ระบุ" {
		t.Errorf("address = %q", res[1].Address)
	}
}

func TestRecommend_RatingOrder(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Recommend(context.Background(), Query{PriceLevel: "$$", Order: OrderRating})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"Hana", "Baan", "Krua", "Som Tam"}
	if len(res) != len(want) {
		t.Fatalf("got %d results, want %d", len(res), len(want))
	}
	for i, name := range want {
		if res[i].Name != name {
			t.Errorf("res[%d] = %q, want %q", i, res[i].Name, name)
		}
	}
}

func TestRecommend_NoMatches(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Recommend(context.Background(), Query{Category: "pizza", PriceLevel: "$$"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res == nil || len(res) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", res)
	}
}

func TestRecommend_InvalidQuery(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Recommend(context.Background(), Query{Category: "thai"})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}

	_, err = c.Recommend(context.Background(), Query{PriceLevel: "$", MinRating: math.NaN()})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria for NaN rating, got %v", err)
	}
}

func TestSimilar(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Similar(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("got %d neighbors, want 3", len(res))
	}
	if res[0].ID != 0 || res[0].Distance > 1e-9 {
		t.Errorf("expected self first at distance 0, got %+v", res[0])
	}
	for i := 1; i < len(res); i++ {
		if res[i].Distance < res[i-1].Distance {
			t.Errorf("neighbors not ascending: %v", res)
		}
	}

	if _, err := c.Similar(context.Background(), 99, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSimilar_EmptyCorpus(t *testing.T) {
	path := writeCSV(t, "name,category,price_level\n,Thai,$\n")
	c, err := New(context.Background(), WithDataset(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Similar(context.Background(), 0, 3); !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "error" || h.Skipped != 1 {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestCategoriesAndPriceLevels(t *testing.T) {
	c := newTestClient(t)

	cats := c.Categories()
	if len(cats) != 4 || cats[0] != "Thai Restaurant" || cats[1] != "Japanese Restaurant" {
		t.Errorf("categories = %v", cats)
	}
	levels := c.PriceLevels()
	if len(levels) != 2 || levels[0] != "$$" || levels[1] != "$$$$" {
		t.Errorf("price levels = %v", levels)
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)

	h := c.Health(context.Background())
	if h.Status != "ok" || h.Records != 5 {
		t.Errorf("unexpected health: %+v", h)
	}
	if _, ok := h.Checks["cache"]; ok {
		t.Error("cache check should be absent without WithCache")
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg))
	ctx := context.Background()

	_, _ = c.Recommend(ctx, Query{PriceLevel: "$$"})
	_, _ = c.Recommend(ctx, Query{})

	ok := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("recommend", "ok"))
	failed := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("recommend", "error"))
	if ok != 1 || failed != 1 {
		t.Errorf("ok=%v error=%v, want 1/1", ok, failed)
	}
}

func TestObserver_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := newTestClient(t, WithPrometheus(reg))
	b := newTestClient(t, WithPrometheus(reg))

	if a.obs.metrics.operations != b.obs.metrics.operations {
		t.Error("expected clients to share registered collectors")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}
