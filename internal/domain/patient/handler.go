package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/counts", h.CountPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.POST("/patients/:id/deactivate", h.DeactivatePatient)
	api.POST("/patients/:id/restore", h.RestorePatient)
}

// PatientRequest is the create/update body.
type PatientRequest struct {
	Name        string  `json:"name" validate:"required"`
	ParentName  string  `json:"parent_name"`
	Phone       string  `json:"phone" validate:"required"`
	BillingType string  `json:"billing_type" validate:"required,oneof=per-session monthly"`
	Rate        float64 `json:"rate" validate:"gt=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r PatientRequest) toPatient(id string) *Patient {
	return &Patient{
		ID:          id,
		Name:        r.Name,
		ParentName:  r.ParentName,
		Phone:       r.Phone,
		BillingType: r.BillingType,
		Rate:        r.Rate,
		Status:      r.Status,
	}
}

// ListResponse carries the filtered list together with the tab counts.
type ListResponse struct {
	Data   []*Patient `json:"data"`
	Counts Counts     `json:"counts"`
}

func (h *Handler) ListPatients(c echo.Context) error {
	ctx := c.Request().Context()
	status := c.QueryParam("status")
	if status != "" && status != "all" && !validStatuses[status] {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	if status == "all" {
		status = ""
	}

	all := h.svc.All(ctx)
	items := Filter{Status: status, Query: c.QueryParam("q")}.Apply(all)
	return c.JSON(http.StatusOK, ListResponse{Data: items, Counts: CountOf(all)})
}

func (h *Handler) CountPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Counts(c.Request().Context()))
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var req PatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	p := req.toPatient("")
	if err := h.svc.Create(c.Request().Context(), p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var req PatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	p := req.toPatient(c.Param("id"))
	if err := h.svc.Update(c.Request().Context(), p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeactivatePatient(c echo.Context) error {
	if err := h.svc.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RestorePatient(c echo.Context) error {
	if err := h.svc.Restore(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
