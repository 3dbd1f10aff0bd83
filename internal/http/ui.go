package http

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed ui/index.html
var uiFS embed.FS

// handleIndex serves the single-page web UI.
func (s *Server) handleIndex(c echo.Context) error {
	page, err := uiFS.ReadFile("ui/index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "UI not available")
	}
	return c.HTMLBlob(http.StatusOK, page)
}
