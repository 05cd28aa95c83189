package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/florapress/bookshop/internal/catalog"
)

// ListBooks returns the full catalog. The response is static per
// build, which is what makes it a good candidate for the Redis
// response cache in front of it.
func ListBooks(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"books": catalog.Books})
}

// GetBook returns a single catalog entry by slug.
func GetBook(c echo.Context) error {
	book, found := catalog.FindBySlug(c.Param("slug"))
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown book"})
	}
	return c.JSON(http.StatusOK, echo.Map{"book": book})
}
