package report

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jmatthewarnold/buendia/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group, pages *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/charts/report", h.GetReport)

	pageGroup := pages.Group("", auth.RequireRole("admin", "physician", "nurse"))
	pageGroup.GET("/charts/printable", h.GetPrintable)
}

// GetPrintable renders the full chart set as a printable HTML page.
func (h *Handler) GetPrintable(c echo.Context) error {
	rpt, err := h.svc.Generate(c.Request().Context())
	if errors.Is(err, ErrNoChartSchema) {
		// A missing profile is an operator problem, not a server
		// fault; explain instead of erroring.
		return c.HTML(http.StatusOK,
			"No profile loaded. Please load a profile before exporting data.")
	}
	if err != nil {
		// The wrapped error carries repository detail; keep it in the
		// log and out of the response body.
		h.logger.Error().Err(err).Msg("report generation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate report")
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	// The response is a stream: a failure part-way leaves partial
	// output behind, which is accepted for a print page.
	return WriteHTML(c.Response(), rpt)
}

// GetReport returns the structured report for clients that render
// their own tables.
func (h *Handler) GetReport(c echo.Context) error {
	rpt, err := h.svc.Generate(c.Request().Context())
	if errors.Is(err, ErrNoChartSchema) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "no chart schema loaded")
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("report generation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate report")
	}
	return c.JSON(http.StatusOK, rpt)
}
