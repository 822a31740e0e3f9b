package books

import "github.com/bookhive/bookhive/pkg/models"

// SearchPayload represents the search query, either as query params or a form
// post.
type SearchPayload struct {
	Query string `json:"query" form:"query" query:"query" validate:"required,max=100"`
}

// SearchResponse represents the search results. An empty Books slice with the
// NoMatches message is the "no matching books" outcome.
type SearchResponse struct {
	Books   []*models.Book `json:"books"`
	Total   int            `json:"total"`
	Message string         `json:"message,omitempty"`
}

// DetailQuery represents the book detail query params.
type DetailQuery struct {
	ISBN string `json:"isbn" query:"isbn" validate:"required"`
}

// DetailResponse represents a book with its reviews and the best-effort
// external rating data. The rating fields stay null when enrichment fails.
type DetailResponse struct {
	Book          *models.Book `json:"book"`
	AverageRating *float64     `json:"average_rating"`
	RatingsCount  *int         `json:"ratings_count"`
}

// SummaryResponse represents the public JSON summary for a single ISBN.
type SummaryResponse struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedDate int      `json:"publishedDate"`
	ISBN10        string   `json:"ISBN_10"`
	ISBN13        *string  `json:"ISBN_13"`
	ReviewCount   int      `json:"reviewCount"`
	AverageRating *float64 `json:"averageRating"`
}
