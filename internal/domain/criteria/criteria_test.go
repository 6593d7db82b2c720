package criteria

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New("thai", "$", 3.5, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", c.Limit(), DefaultLimit)
	}
	if c.Order() != Dataset {
		t.Errorf("Order() = %q, want dataset", c.Order())
	}
	if c.Category() != "thai" || c.PriceLevel() != "$" || c.MinRating() != 3.5 {
		t.Errorf("unexpected fields: %+v", c)
	}
}

func TestNew_LimitClamped(t *testing.T) {
	c, err := New("", "$", 0, 1000, Rating)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", c.Limit(), MaxLimit)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		priceLevel string
		minRating  float64
		order      Order
	}{
		{"empty price", "thai", "", 3, ""},
		{"negative rating", "thai", "$", -0.1, ""},
		{"rating above 5", "thai", "$", 5.1, ""},
		{"NaN rating", "thai", "$", math.NaN(), ""},
		{"bad order", "thai", "$", 3, "random"},
		{"long category", strings.Repeat("x", MaxCategoryLn+1), "$", 3, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.category, tc.priceLevel, tc.minRating, 10, tc.order)
			if !errors.Is(err, domain.ErrInvalidCriteria) {
				t.Fatalf("expected ErrInvalidCriteria, got %v", err)
			}
		})
	}
}

func TestMatcher(t *testing.T) {
	c, err := New("thai", "$", 3.5, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	match := c.Matcher()

	tests := []struct {
		name string
		r    restaurant.Restaurant
		want bool
	}{
		{"exact", restaurant.Restaurant{Category: "Thai", PriceLevel: "$", Rating: 4.2}, true},
		{"substring", restaurant.Restaurant{Category: "Northern THAI food", PriceLevel: "$", Rating: 3.5}, true},
		{"rating below", restaurant.Restaurant{Category: "Thai BBQ", PriceLevel: "$", Rating: 3.0}, false},
		{"other category", restaurant.Restaurant{Category: "Italian", PriceLevel: "$", Rating: 4.9}, false},
		{"other price", restaurant.Restaurant{Category: "Thai", PriceLevel: "$$", Rating: 4.9}, false},
		{"price not substring", restaurant.Restaurant{Category: "Thai", PriceLevel: "$ ", Rating: 4.9}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := match(&tc.r); got != tc.want {
				t.Errorf("match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatcher_EmptyCategoryMatchesAll(t *testing.T) {
	c, _ := New("", "฿฿", 0, 10, "")
	match := c.Matcher()
	r := restaurant.Restaurant{Category: "ก๋วยเตี๋ยว", PriceLevel: "฿฿", Rating: 3.1}
	if !match(&r) {
		t.Error("empty category should match any category")
	}
}

func TestMatcher_ThaiSubstring(t *testing.T) {
	c, _ := New("ก๋วยเตี๋ยว", "฿", 0, 10, "")
	match := c.Matcher()
	r := restaurant.Restaurant{Category: "ร้านก๋วยเตี๋ยวเรือ", PriceLevel: "฿", Rating: 3.1}
	if !match(&r) {
		t.Error("expected Thai substring match")
	}
}

func TestKey_DiffersByField(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		ra   float64
		rb   float64
	}{
		{"rating", [2]string{"thai", "$"}, [2]string{"thai", "$"}, 3.5, 3.6},
		{"category", [2]string{"thai", "$"}, [2]string{"thai food", "$"}, 0, 0},
		{"separator in values", [2]string{"a|p=b", "c"}, [2]string{"a", "b|p=c"}, 0, 0},
		{"quote in values", [2]string{`a"`, "b"}, [2]string{"a", `"b`}, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(tc.a[0], tc.a[1], tc.ra, 10, "")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			b, err := New(tc.b[0], tc.b[1], tc.rb, 10, "")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if a.Key() == b.Key() {
				t.Errorf("keys should differ: %q", a.Key())
			}
		})
	}
}
