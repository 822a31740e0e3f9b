package books

import (
	"net/http"

	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/ratings"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	golog "github.com/robinjoseph08/golib/logger"
)

type handler struct {
	bookService   *Service
	ratingsClient ratings.Client
}

// search returns all books matching the query substring.
func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.bookService.Search(ctx, params.Query)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := SearchResponse{Books: books, Total: len(books)}
	if len(books) == 0 {
		resp.Message = "No matching books found."
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// retrieve returns a book, its reviews, and best-effort external rating data.
// Enrichment failures are logged and degrade to null rating fields; they
// never fail the request.
func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	params := DetailQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.Retrieve(ctx, params.ISBN)
	if err != nil {
		return err
	}

	resp := DetailResponse{Book: book}
	if rating, err := h.ratingsClient.Lookup(ctx, params.ISBN); err != nil {
		logger.FromEchoContext(c).Warn("rating enrichment unavailable", golog.Data{
			"isbn":  params.ISBN,
			"error": err.Error(),
		})
	} else {
		resp.AverageRating = &rating.AverageRating
		resp.RatingsCount = &rating.RatingsCount
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// summary is the public JSON API for a single ISBN.
func (h *handler) summary(c echo.Context) error {
	ctx := c.Request().Context()
	isbn := c.Param("isbn")

	book, err := h.bookService.Retrieve(ctx, isbn)
	var codeErr *errcodes.Error
	if errors.As(err, &codeErr) && codeErr.HTTPCode == http.StatusNotFound {
		// The API contract predates the error envelope: a flat body with a
		// 404 status.
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Book not found"})
	}
	if err != nil {
		return err
	}

	count, avg, err := h.bookService.Summary(ctx, isbn)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, SummaryResponse{
		Title:         book.Title,
		Author:        book.Author,
		PublishedDate: book.Year,
		ISBN10:        book.ISBN,
		ReviewCount:   count,
		AverageRating: avg,
	}))
}
