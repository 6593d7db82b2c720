// Package display maps restaurants to user-facing records.
package display

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kailas-cloud/dinerec/internal/domain/restaurant"
)

const (
	// NotSpecified replaces a missing street or phone.
	NotSpecified = "ไม่ระบุ"
	// NoMatchesMessage is shown when no restaurant passes the filters.
	NoMatchesMessage = "ไม่พบร้านที่ตรงกับเงื่อนไข"

	searchBaseURL  = "https://www.google.com/search"
	searchSuffix   = " ร้านอาหาร"
	urlPlaceholder = "-"
)

// Record is a restaurant ready for rendering.
type Record struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceLevel string `json:"price_level"`
	Rating     string `json:"rating"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Link       string `json:"link"`
}

// Format renders a restaurant. The source record is not modified.
func Format(r *restaurant.Restaurant) Record {
	return Record{
		ID:         r.ID,
		Name:       r.Name,
		Category:   r.Category,
		PriceLevel: r.PriceLevel,
		Rating:     fmt.Sprintf("%.1f", r.Rating),
		Address:    orNotSpecified(r.Street),
		Phone:      orNotSpecified(r.Phone),
		Link:       Link(r.Name, r.URL),
	}
}

// FormatAll renders a result list in order.
func FormatAll(rs []restaurant.Restaurant) []Record {
	out := make([]Record, len(rs))
	for i := range rs {
		out[i] = Format(&rs[i])
	}
	return out
}

// Link returns rawURL unchanged unless it is blank or the "-" placeholder,
// in which case a web search link for the restaurant name is generated.
func Link(name, rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed != "" && trimmed != urlPlaceholder {
		return rawURL
	}
	q := url.Values{}
	q.Set("q", name+searchSuffix)
	return searchBaseURL + "?" + q.Encode()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}
