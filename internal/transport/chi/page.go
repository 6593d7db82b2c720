package chi

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/domain/display"
	"github.com/kailas-cloud/dinerec/internal/domain/session"
)

// DefaultPageRating is the initial minimum rating shown by the page form.
const DefaultPageRating = 3.5

const placeholderImage = "https://cdn-icons-png.flaticon.com/512/3075/3075977.png"

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	Categories       []string
	PriceLevels      []string
	Category         string
	PriceLevel       string
	MinRating        float64
	Searched         bool
	Results          []display.Record
	Error            string
	NoMatches        string
	PlaceholderImage string
}

// Page handles GET /. The page state starts NotSearched and moves to
// Searched when the form is submitted (search=1).
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := session.NotSearched.Advance(q.Get("search") == "1")

	data := pageData{
		Categories:       s.rec.Categories(),
		PriceLevels:      s.rec.PriceLevels(),
		Category:         q.Get("category"),
		PriceLevel:       q.Get("price_level"),
		MinRating:        DefaultPageRating,
		Searched:         state == session.Searched,
		NoMatches:        display.NoMatchesMessage,
		PlaceholderImage: placeholderImage,
	}
	if data.Category == "" && len(data.Categories) > 0 {
		data.Category = data.Categories[0]
	}
	if data.PriceLevel == "" && len(data.PriceLevels) > 0 {
		data.PriceLevel = data.PriceLevels[0]
	}

	status := http.StatusOK
	if data.Searched {
		q.Set("category", data.Category)
		q.Set("price_level", data.PriceLevel)
		c, err := criteriaFromQuery(q, s.opts, DefaultPageRating)
		if err != nil {
			status = http.StatusBadRequest
			data.Error = err.Error()
		} else {
			data.MinRating = c.MinRating()
			data.Results = display.FormatAll(s.rec.Recommend(r.Context(), &c))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
	}
}
