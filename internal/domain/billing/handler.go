package billing

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
	api.GET("/billing", h.ListPayments)
	api.POST("/billing", h.CreatePayment)
	api.GET("/billing/methods", h.ListMethods)
	api.GET("/billing/:id", h.GetPayment)
	api.PUT("/billing/:id", h.UpdatePayment)
	api.DELETE("/billing/:id", h.DeletePayment)
}

// PaymentRequest is the create/update body.
type PaymentRequest struct {
	PatientID string  `json:"patient_id" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"method" validate:"required"`
	MonthRef  string  `json:"month_ref" validate:"required,datetime=2006-01"`
}

func (r PaymentRequest) toEntry(id string) *Entry {
	return &Entry{
		ID:        id,
		PatientID: r.PatientID,
		Date:      r.Date,
		Amount:    r.Amount,
		Method:    r.Method,
		MonthRef:  r.MonthRef,
	}
}

func (h *Handler) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()
	if pid := c.QueryParam("patient_id"); pid != "" {
		return c.JSON(http.StatusOK, h.svc.ListByPatient(ctx, pid))
	}
	return c.JSON(http.StatusOK, h.svc.List(ctx))
}

func (h *Handler) ListMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, Methods())
}

func (h *Handler) GetPayment(c echo.Context) error {
	e, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) CreatePayment(c echo.Context) error {
	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	e := req.toEntry("")
	if err := h.svc.Create(c.Request().Context(), e); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdatePayment(c echo.Context) error {
	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	e := req.toEntry(c.Param("id"))
	if err := h.svc.Update(c.Request().Context(), e); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeletePayment(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
