package overview

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/full", h.GetPatientFull)
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/debts", h.GetDebts)
}

func (h *Handler) GetPatientFull(c echo.Context) error {
	rec, err := h.svc.GetPatientFullData(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if rec == nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Dashboard(c.Request().Context()))
}

func (h *Handler) GetDebts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Debts(c.Request().Context()))
}
