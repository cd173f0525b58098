package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"market-sentiment/internal/news"
)

type newsParams struct {
	Symbol   string `json:"symbol" validate:"omitempty,max=20"`
	Category string `json:"category" validate:"omitempty,max=40"`
	SortBy   string `json:"sortBy" validate:"oneof=publishedAt sentiment relevance"`
}

type newsFilters struct {
	Symbol   *string `json:"symbol"`
	Category *string `json:"category"`
	SortBy   string  `json:"sortBy"`
}

type newsResponse struct {
	news.Page
	Filters   newsFilters `json:"filters"`
	Timestamp time.Time   `json:"timestamp"`
}

// GET /api/news?symbol=&category=&sortBy=&page=&limit=
func (s *Server) listNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := newsParams{
		Symbol:   strings.ToUpper(strings.TrimSpace(q.Get("symbol"))),
		Category: strings.TrimSpace(q.Get("category")),
		SortBy:   q.Get("sortBy"),
	}
	if params.SortBy == "" {
		params.SortBy = news.SortPublishedAt
	}
	if err := s.validate.Struct(params); err != nil {
		writeError(w, r, validationError(err))
		return
	}
	page, err := s.intParam(r, "page", 1, "gte=1,lte=10000")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := s.intParam(r, "limit", news.DefaultLimit, "gte=1,lte=100")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if params.Symbol != "" {
		if _, ok := s.deps.Market.Lookup(params.Symbol); !ok {
			writeError(w, r, notFound(CodeUnknownSymbol, "unknown symbol %q", params.Symbol))
			return
		}
	}

	res, err := s.deps.News.Query(r.Context(), news.Query{
		Symbol:   params.Symbol,
		Category: params.Category,
		SortBy:   params.SortBy,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	res.News = roundNews(res.News)
	res.Statistics.Sentiment.AverageScore = round2(res.Statistics.Sentiment.AverageScore)

	render.JSON(w, r, newsResponse{
		Page: res,
		Filters: newsFilters{
			Symbol:   optionalString(params.Symbol),
			Category: optionalString(params.Category),
			SortBy:   params.SortBy,
		},
		Timestamp: s.now().UTC(),
	})
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
