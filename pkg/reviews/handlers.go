package reviews

import (
	"net/http"

	"github.com/bookhive/bookhive/pkg/auth"
	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/labstack/echo/v4"
)

type handler struct {
	reviewService *Service
}

func (h *handler) submit(c echo.Context) error {
	pl := SubmitPayload{}
	if err := c.Bind(&pl); err != nil {
		return err
	}

	username, ok := auth.UsernameFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	review, err := h.reviewService.Submit(c.Request().Context(), SubmitOptions{
		ISBN:     pl.ISBN,
		Username: username,
		Rating:   pl.Rating,
		Comment:  pl.Comment,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, SubmitResponse{Review: review})
}
